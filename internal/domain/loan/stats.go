package loan

// Stats is derived on every read and never persisted.
type Stats struct {
	TotalLoans        int   `json:"totalLoans"`
	TotalAmount       int64 `json:"totalAmount"`
	UnpaidCount       int   `json:"unpaidCount"`
	TotalPaidAmount   int64 `json:"totalPaidAmount"`
	TotalUnpaidAmount int64 `json:"totalUnpaidAmount"`
}

func Summarize(loans []Loan) Stats {
	s := Stats{TotalLoans: len(loans)}
	for _, l := range loans {
		s.TotalAmount += l.Amount
		s.TotalPaidAmount += l.PaidAmount
		if !l.Paid {
			s.UnpaidCount++
		}
	}
	s.TotalUnpaidAmount = s.TotalAmount - s.TotalPaidAmount
	return s
}
