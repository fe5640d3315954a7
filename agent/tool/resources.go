package tool

import (
	"context"
	"fmt"
	"strings"

	"github.com/tanpawarit/goodfoods-reservation-agent/agent/booking"
	contractx "github.com/tanpawarit/goodfoods-reservation-agent/agent/contract"
)

const (
	resourceScheme   = "restaurants://"
	resourceListURI  = resourceScheme + "list"
	resourceMimeType = "application/json"
)

func listResources() contractx.ResourceListResult {
	return contractx.ResourceListResult{
		Resources: []contractx.ResourceDescriptor{
			{
				URI:         resourceListURI,
				Name:        "All Restaurants",
				Description: "List of all available restaurants",
				MimeType:    resourceMimeType,
			},
			{
				URI:         resourceScheme + "{id}",
				Name:        "Restaurant Details",
				Description: "Detailed information about a specific restaurant",
				MimeType:    resourceMimeType,
			},
		},
	}
}

func (d *Dispatcher) readResource(ctx context.Context, params map[string]any) (contractx.ResourceReadResult, error) {
	uri := args(params).str("uri")

	switch {
	case uri == resourceListURI:
		all, err := d.store.ListRestaurants(ctx)
		if err != nil {
			return contractx.ResourceReadResult{}, err
		}
		contents := make([]contractx.ResourceContent, 0, len(all))
		for _, r := range all {
			c, err := restaurantContent(r)
			if err != nil {
				return contractx.ResourceReadResult{}, err
			}
			contents = append(contents, c)
		}
		return contractx.ResourceReadResult{Contents: contents}, nil

	case strings.HasPrefix(uri, resourceScheme):
		id := strings.TrimPrefix(uri, resourceScheme)
		r, err := d.store.GetRestaurant(ctx, id)
		if err != nil {
			return contractx.ResourceReadResult{}, err
		}
		if r == nil {
			return contractx.ResourceReadResult{}, fmt.Errorf("%w: restaurant %s", contractx.ErrResourceNotFound, id)
		}
		c, err := restaurantContent(*r)
		if err != nil {
			return contractx.ResourceReadResult{}, err
		}
		return contractx.ResourceReadResult{Contents: []contractx.ResourceContent{c}}, nil

	default:
		return contractx.ResourceReadResult{}, fmt.Errorf("%w: unknown resource uri %q", contractx.ErrResourceNotFound, uri)
	}
}

func restaurantContent(r booking.Restaurant) (contractx.ResourceContent, error) {
	text, err := prettyJSON(r)
	if err != nil {
		return contractx.ResourceContent{}, err
	}
	return contractx.ResourceContent{
		URI:      resourceScheme + r.ID,
		MimeType: resourceMimeType,
		Text:     text,
	}, nil
}
