// Package store defines the persistence interface for municipalities and
// extracted commitments. The extraction engine never touches it; callers
// hand finished records over and the store owns deduplication and snippet
// truncation.
package store

import (
	"context"

	"github.com/abwagner/nj-affordable-housing/internal/model"
)

// SnippetMaxLen is the stored length cap for raw text snippets. The engine
// produces up to 700 characters of context; persistence keeps 500.
const SnippetMaxLen = 500

// Municipality is one tracked municipality.
type Municipality struct {
	ID              int64
	Name            string
	County          string
	OfficialWebsite string
	Population      int
}

// Commitment is a persisted commitment record with its row metadata.
type Commitment struct {
	ID             int64
	MunicipalityID int64
	Record         model.CommitmentRecord
	CreatedAt      string
}

// Stats summarizes table sizes for reporting.
type Stats struct {
	Municipalities int
	Commitments    int
	ScrapedPages   int
}

// Store is the persistence contract. Implementations deduplicate
// commitments by (municipality, source URL).
type Store interface {
	InsertMunicipality(ctx context.Context, m Municipality) (int64, error)
	BulkInsertMunicipalities(ctx context.Context, ms []Municipality) (int, error)
	GetMunicipality(ctx context.Context, name string) (*Municipality, error)
	ListMunicipalities(ctx context.Context) ([]Municipality, error)
	UpdateMunicipalityWebsite(ctx context.Context, name, website string) error

	// InsertCommitmentIfNew persists the record unless one already exists
	// for the same municipality and source URL. Returns whether a row was
	// inserted.
	InsertCommitmentIfNew(ctx context.Context, municipalityID int64, rec *model.CommitmentRecord) (bool, error)
	ListCommitments(ctx context.Context, municipality string) ([]Commitment, error)

	RecordScrapedPage(ctx context.Context, url, pageType string) error
	IsPageScraped(ctx context.Context, url string) (bool, error)

	Stats(ctx context.Context) (Stats, error)
	Close() error
}

// TruncateSnippet applies the persistence-layer snippet cap.
func TruncateSnippet(s string) string {
	if len(s) > SnippetMaxLen {
		return s[:SnippetMaxLen]
	}
	return s
}
