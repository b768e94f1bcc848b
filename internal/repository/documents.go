package repository

import (
	"fmt"

	"github.com/noah-isme/daycare-api/pkg/docstore"
)

// Collection names in the document store.
const (
	CollectionStudents      = "students"
	CollectionAttendance    = "attendance"
	CollectionPenalties     = "penalties"
	CollectionInvoices      = "invoices"
	CollectionStaff         = "staff"
	CollectionHistory       = "history"
	CollectionNotifications = "notifications"
	CollectionSettings      = "settings"

	settingsDocumentID = "config"
)

// Collections lists every collection exposed to live subscriptions.
var Collections = []string{
	CollectionStudents,
	CollectionAttendance,
	CollectionPenalties,
	CollectionInvoices,
	CollectionStaff,
	CollectionHistory,
	CollectionNotifications,
}

// decodeDocuments unmarshals documents and stamps each value with its store ID.
func decodeDocuments[T any](collection string, docs []docstore.Document, setID func(*T, string)) ([]T, error) {
	out := make([]T, 0, len(docs))
	for _, doc := range docs {
		var value T
		if err := doc.Decode(&value); err != nil {
			return nil, fmt.Errorf("decode %s/%s: %w", collection, doc.ID, err)
		}
		setID(&value, doc.ID)
		out = append(out, value)
	}
	return out, nil
}
