package file

import "context"

// SearchTermGateway persists the set of already searched terms.
type SearchTermGateway interface {
	Load(ctx context.Context) ([]string, error)
	Save(ctx context.Context, terms []string) error
}
