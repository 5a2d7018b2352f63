package osm

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/nyayasahayak/legallibrary/internal/pkg/httpclient"
)

// Catalogue implements ports.CatalogueSource over a published
// states-and-districts JSON document.
type Catalogue struct {
	url  string
	http *httpclient.Client
}

func NewCatalogue(cfg Config) *Catalogue {
	return &Catalogue{url: cfg.CatalogueURL, http: newClient(cfg)}
}

type catalogueDoc struct {
	States []struct {
		State     string   `json:"state"`
		Districts []string `json:"districts"`
	} `json:"states"`
}

// StatesAndDistricts maps each state name to its district names.
func (c *Catalogue) StatesAndDistricts(ctx context.Context) (map[string][]string, error) {
	var doc catalogueDoc
	err := c.http.DecodeJSON(ctx, func() (*http.Request, error) {
		return c.http.NewRequest(ctx, http.MethodGet, c.url, nil)
	}, &doc)
	if err != nil {
		return nil, upstream("catalogue", err)
	}

	out := make(map[string][]string, len(doc.States))
	for _, s := range doc.States {
		name := strings.TrimSpace(s.State)
		if name == "" {
			continue
		}
		out[name] = append(out[name], s.Districts...)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("catalogue: no states in %s", c.url)
	}
	return out, nil
}
