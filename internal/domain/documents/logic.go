package documents

import "time"

const expiryWindowDays = 30

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// ExpiringSoon reports whether a contract ends within the next 30 calendar
// days, today and the boundary day both included. Non-contract documents
// never expire.
func ExpiringSoon(docType string, contractEnd *time.Time, now time.Time) bool {
	if docType != TypeContract || contractEnd == nil {
		return false
	}
	today := dateOnly(now)
	end := dateOnly(*contractEnd)
	if end.Before(today) {
		return false
	}
	return !end.After(today.AddDate(0, 0, expiryWindowDays))
}

// Expired reports whether a contract's end date is strictly before today.
func Expired(docType string, contractEnd *time.Time, now time.Time) bool {
	if docType != TypeContract || contractEnd == nil {
		return false
	}
	return dateOnly(*contractEnd).Before(dateOnly(now))
}

// Annotate fills the two derived expiry flags in place.
func Annotate(doc *Document, now time.Time) {
	doc.IsExpiringSoon = ExpiringSoon(doc.DocumentType, doc.ContractEndDate, now)
	doc.HasExpired = Expired(doc.DocumentType, doc.ContractEndDate, now)
}
