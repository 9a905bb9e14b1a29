package college

// Salary is one reconciled compensation row, keyed by (StudentID, Year).
// AmountUSD is in cents and never negative.
type Salary struct {
	StudentID string
	Year      int
	AmountUSD int
}
