package purdue

import (
	"github.com/ecoulson/perdue/internal/college"
	"github.com/ecoulson/perdue/internal/htmlrow"
	"github.com/ecoulson/perdue/internal/parser"
	"github.com/ecoulson/perdue/internal/pipeline"
	"github.com/ecoulson/perdue/internal/scraper"
)

// Sites wires every department directory to its adapter. College ids are
// stable across runs; the Colleges table is seeded from this list.
func Sites(client *scraper.Client) []pipeline.Site {
	return []pipeline.Site{
		pipeline.NewSite[*AgricultureRequest, *AgricultureResponse](NewAgricultureScraper(client, college.College{
			ID:                "0",
			Name:              "College of Agriculture",
			BaseURL:           "https://ag.purdue.edu/api/pi/2021/api/Directory/ListStaffDirectory",
			DefaultDepartment: "School of Agriculture",
		})),

		pipeline.NewSite[scraper.SinglePageRequest, scraper.HTMLPage](NewSinglePageScraper(client,
			college.College{
				ID:                "1",
				Name:              "College of Education",
				BaseURL:           "https://education.purdue.edu/graduate-directory/",
				DefaultDepartment: "School of Education",
			},
			htmlrow.Selectors{
				DirectoryRow: ".grad-directory-archive-container",
				Names:        []string{".grad-directory-archive-info h2"},
				Position:     ".position",
				Email:        ".grad-directory-archive-contact a",
				Department:   ".department",
			},
			parser.Default{DefaultDepartment: "School of Education"},
		)),

		pipeline.NewSite[*HealthRequest, *HealthResponse](NewHealthScraper(client, college.College{
			ID:                "2",
			Name:              "College of Health and Human Sciences",
			BaseURL:           "https://hhs.purdue.edu/wp-admin/admin-ajax.php",
			DefaultDepartment: "School of Health Sciences",
		})),

		pipeline.NewSite[scraper.SinglePageRequest, scraper.HTMLPage](NewLiberalArtsScraper(client, college.College{
			ID:                "3",
			Name:              "College of Liberal Arts",
			BaseURL:           "https://cla.purdue.edu/directory/",
			DefaultDepartment: "School of Liberal Arts",
		})),

		pipeline.NewSite[scraper.SinglePageRequest, scraper.HTMLPage](NewSinglePageScraper(client,
			college.College{
				ID:                "4",
				Name:              "College of Pharmacy",
				BaseURL:           "https://www.pharmacy.purdue.edu/directory?name=&dept=&type=gradstudent",
				DefaultDepartment: "School of Pharmacy",
			},
			htmlrow.Selectors{
				DirectoryRow: "table tbody tr",
				Names:        []string{"td:nth-child(1)"},
				Position:     "td:nth-child(2)",
				Location:     "td:nth-child(3)",
				Email:        "td:nth-child(5) a",
			},
			parser.Pharmacy{},
		)),

		pipeline.NewSite[scraper.SinglePageRequest, scraper.HTMLPage](NewSinglePageScraper(client,
			college.College{
				ID:                "5",
				Name:              "College of Biomedical Engineering",
				BaseURL:           "https://engineering.purdue.edu/BME/People/GradStudents",
				DefaultOffice:     college.Office{Building: "Hall of Biomedical Engineering"},
				DefaultDepartment: "School of Biomedical Engineering",
			},
			htmlrow.Selectors{
				DirectoryRow: ".people-list .row",
				Names:        []string{".list-name a", ".list-name strong"},
				Email:        ".email a",
				Position:     ".people-list-title",
			},
			parser.Default{
				DefaultOffice:     college.Office{Building: "Hall of Biomedical Engineering"},
				DefaultDepartment: "School of Biomedical Engineering",
			},
		)),

		pipeline.NewSite[scraper.SinglePageRequest, scraper.HTMLPage](NewSinglePageScraper(client,
			college.College{
				ID:                "6",
				Name:              "College of Chemical Engineering",
				BaseURL:           "https://engineering.purdue.edu/ChE/people/ptGradStudents",
				DefaultOffice:     college.Office{Building: "Forney Hall of Chemical Engineering"},
				DefaultDepartment: "School of Chemical Engineering",
			},
			htmlrow.Selectors{
				DirectoryRow: ".people-list .row",
				Names:        []string{".list-name"},
				Email:        ".email a",
				Position:     ".people-list-title",
			},
			parser.Default{
				DefaultOffice:     college.Office{Building: "Forney Hall of Chemical Engineering"},
				DefaultDepartment: "School of Chemical Engineering",
			},
		)),

		pipeline.NewSite[scraper.SinglePageRequest, scraper.HTMLPage](NewSinglePageScraper(client,
			college.College{
				ID:                "7",
				Name:              "College of Engineering Education",
				BaseURL:           "https://engineering.purdue.edu/ENE/People/GraduateStudents",
				DefaultOffice:     college.Office{Building: "Armstrong Hall"},
				DefaultDepartment: "School of Engineering Education",
			},
			htmlrow.Selectors{
				DirectoryRow: ".people-list .row",
				Names:        []string{".list-name a", ".list-name strong"},
				Email:        ".email a",
				Position:     ".title",
			},
			parser.Default{
				DefaultOffice:     college.Office{Building: "Armstrong Hall"},
				DefaultDepartment: "School of Engineering Education",
			},
		)),

		pipeline.NewSite[scraper.SinglePageRequest, scraper.HTMLPage](NewSinglePageScraper(client,
			college.College{
				ID:                "8",
				Name:              "College of Ecological Engineering",
				BaseURL:           "https://engineering.purdue.edu/EEE/People/Graduate",
				DefaultDepartment: "School of Environmental and Ecological Engineering",
			},
			htmlrow.Selectors{
				DirectoryRow: ".people-list .row",
				Names:        []string{".list-name a", ".list-name strong"},
				Email:        ".people-list-pyEmail a",
				Position:     ".people-list-title",
			},
			parser.Default{
				DefaultDepartment: "School of Environmental and Ecological Engineering",
			},
		)),

		pipeline.NewSite[scraper.SinglePageRequest, scraper.HTMLPage](NewSinglePageScraper(client,
			college.College{
				ID:                "9",
				Name:              "College of Industrial Engineering",
				BaseURL:           "https://engineering.purdue.edu/IE/people/Grad",
				DefaultOffice:     college.Office{Building: "Grissom Hall"},
				DefaultDepartment: "School of Industrial Engineering",
			},
			htmlrow.Selectors{
				DirectoryRow: ".people-list .row",
				Names:        []string{".list-name a", ".list-name span"},
				Email:        ".email a",
				Position:     ".people-list-title",
			},
			parser.Default{
				DefaultOffice:     college.Office{Building: "Grissom Hall"},
				DefaultDepartment: "School of Industrial Engineering",
			},
		)),

		pipeline.NewSite[scraper.SinglePageRequest, scraper.HTMLPage](NewSinglePageScraper(client,
			college.College{
				ID:                "10",
				Name:              "College of Materials Engineering",
				BaseURL:           "https://engineering.purdue.edu/MSE/academics/graduate/graduate-directory/index_html",
				DefaultDepartment: "School of Materials Engineering",
			},
			htmlrow.Selectors{
				DirectoryRow: ".mse-grad-card",
				Names:        []string{"h1"},
				Email:        "a",
			},
			parser.Default{
				DefaultDepartment: "School of Materials Engineering",
			},
		)),

		pipeline.NewSite[scraper.SinglePageRequest, scraper.HTMLPage](NewSinglePageScraper(client,
			college.College{
				ID:                "11",
				Name:              "College of Nuclear Engineering",
				BaseURL:           "https://engineering.purdue.edu/NE/people/grads",
				DefaultDepartment: "School of Nuclear Engineering",
			},
			htmlrow.Selectors{
				DirectoryRow: ".people-list .row",
				Names:        []string{".list-name a", ".list-name strong"},
				Email:        ".email a",
			},
			parser.Default{
				DefaultDepartment: "School of Nuclear Engineering",
			},
		)),

		pipeline.NewSite[scraper.SinglePageRequest, scraper.HTMLPage](NewSinglePageScraper(client,
			college.College{
				ID:                "12",
				Name:              "College of Biological Sciences",
				BaseURL:           "https://www.bio.purdue.edu/People/graduate_students.html",
				DefaultOffice:     college.Office{Building: "LILY"},
				DefaultDepartment: "School of Biological Sciences",
			},
			htmlrow.Selectors{
				DirectoryRow: "#container .element",
				Names:        []string{"h2"},
				Email:        "div:nth-child(2) p:nth-child(6) a",
				Location:     "div:nth-child(2) p:nth-child(4)",
			},
			parser.BiologicalSciences{},
		)),

		pipeline.NewSite[scraper.SinglePageRequest, scraper.HTMLPage](NewSinglePageScraper(client,
			college.College{
				ID:                "13",
				Name:              "College of Chemical Sciences",
				BaseURL:           "https://www.chem.purdue.edu/people/internal.html",
				DefaultOffice:     college.Office{Building: "BRWN"},
				DefaultDepartment: "Department Of Chemistry",
			},
			htmlrow.Selectors{
				DirectoryRow: ".table tbody tr",
				Names:        []string{"td:nth-child(3)"},
				Email:        "td:nth-child(4) a",
				Location:     "td:nth-child(7)",
			},
			parser.ChemicalSciences{},
		)),

		pipeline.NewSite[scraper.SinglePageRequest, scraper.HTMLPage](NewSinglePageScraper(client,
			college.College{
				ID:                "14",
				Name:              "College of Computer Sciences",
				BaseURL:           "https://www.cs.purdue.edu/people/graduate-students/index.html",
				DefaultOffice:     college.Office{Building: "LWSN"},
				DefaultDepartment: "Department of Computer Science",
			},
			htmlrow.Selectors{
				DirectoryRow: ".table tbody tr",
				Names:        []string{"td:nth-child(1)"},
				Email:        "td:nth-child(3) a",
				Location:     "td:nth-child(2)",
			},
			parser.Default{
				DefaultOffice:     college.Office{Building: "LWSN"},
				DefaultDepartment: "Department of Computer Science",
			},
		)),

		pipeline.NewSite[scraper.SinglePageRequest, scraper.HTMLPage](NewSinglePageScraper(client,
			college.College{
				ID:                "15",
				Name:              "College of Earth, Atmospheric, and Planetary Sciences",
				BaseURL:           "https://www.eaps.purdue.edu/people/grad/index.php",
				DefaultOffice:     college.Office{Building: "HAMP"},
				DefaultDepartment: "School of EAPS",
			},
			htmlrow.Selectors{
				DirectoryRow: ".PhD .peopleDirectoryPerson",
				Names:        []string{".peopleDirectoryInfo strong"},
				Email:        ".peopleDirectoryInfo a",
				Location:     ".peopleDirectoryInfo div",
			},
			parser.Default{
				DefaultOffice:     college.Office{Building: "HAMP"},
				DefaultDepartment: "School of EAPS",
			},
		)),

		pipeline.NewSite[scraper.SinglePageRequest, scraper.HTMLPage](NewSinglePageScraper(client,
			college.College{
				ID:                "16",
				Name:              "College of Mathematics",
				BaseURL:           "https://www.math.purdue.edu/people/gradstudents.html",
				DefaultOffice:     college.Office{Building: "MATH"},
				DefaultDepartment: "Department of Mathematics",
			},
			htmlrow.Selectors{
				DirectoryRow: "#container .directory-row",
				Names:        []string{".peopleDirectoryName a"},
				Email:        ".st_details li a",
				Location:     ".st_details li:nth-child(2)",
			},
			parser.Default{
				DefaultOffice:     college.Office{Building: "MATH"},
				DefaultDepartment: "Department of Mathematics",
			},
		)),

		pipeline.NewSite[scraper.SinglePageRequest, scraper.HTMLPage](NewSinglePageScraper(client,
			college.College{
				ID:                "17",
				Name:              "College of Physics and Astronomy",
				BaseURL:           "https://www.physics.purdue.edu/php-scripts/people/people_list.php",
				DefaultOffice:     college.Office{Building: "PHYS"},
				DefaultDepartment: "Department of Physics and Astronomy",
			},
			htmlrow.Selectors{
				DirectoryRow: ".person-item",
				Names:        []string{"h2"},
				Email:        ".email_link",
				Location:     ".info-box div:nth-child(2) .info",
				Position:     `a[data-category="graduate"]`,
			},
			parser.PhysicsAndAstronomy{},
		)),

		pipeline.NewSite[scraper.SinglePageRequest, scraper.HTMLPage](NewSinglePageScraper(client,
			college.College{
				ID:                "18",
				Name:              "College of Statistics",
				BaseURL:           "https://www.stat.purdue.edu/people/graduate_students/",
				DefaultOffice:     college.Office{Building: "MATH"},
				DefaultDepartment: "Department of Statistics",
			},
			htmlrow.Selectors{
				DirectoryRow: "#container .element",
				Names:        []string{"div h2"},
				Email:        "div div p a",
				Location:     "div div p:nth-child(1)",
			},
			parser.Statistics{},
		)),

		pipeline.NewSite[scraper.SinglePageRequest, scraper.HTMLPage](NewSinglePageScraper(client,
			college.College{
				ID:                "19",
				Name:              "College of Veterinary Medicine",
				BaseURL:           "https://vet.purdue.edu/directory/index.php?classification=20",
				DefaultDepartment: "Department of Veterinary Medicine",
			},
			htmlrow.Selectors{
				DirectoryRow: ".profile-entry",
				Names:        []string{"div:nth-child(1) a"},
				Email:        "div:nth-child(3) a",
			},
			parser.VeterinaryMedicine{},
		)),
	}
}

// Colleges returns the static configuration of every site.
func Colleges(sites []pipeline.Site) []college.College {
	colleges := make([]college.College, 0, len(sites))
	for _, site := range sites {
		colleges = append(colleges, site.College)
	}
	return colleges
}
