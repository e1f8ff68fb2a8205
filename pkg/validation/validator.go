package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

var (
	// validate is a singleton validator instance
	validate *validator.Validate
)

func init() {
	validate = validator.New()
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("query"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
}

// GraphQuery holds the parameters every analysis endpoint accepts. The
// filters narrow which links are fetched.
type GraphQuery struct {
	Directed  bool `query:"directed"`
	LinkLimit int  `query:"link_limit" validate:"min=1,max=100000"`

	Start     *time.Time `query:"start"`
	End       *time.Time `query:"end"`
	Chain     string     `query:"chain" validate:"max=64"`
	MinValue  float64    `query:"min_value" validate:"gte=0"`
	Addresses []string   `query:"address" validate:"max=100,dive,required,max=128"`
}

// CentralityQuery parameters for centrality endpoints. TopN 0 keeps every node.
type CentralityQuery struct {
	GraphQuery
	TopN       int  `query:"top_n" validate:"min=0,max=10000"`
	Normalized bool `query:"normalized"`
}

// CommunityQuery parameters for community detection
type CommunityQuery struct {
	GraphQuery
	Algorithm string `query:"algorithm" validate:"required,oneof=louvain greedy label_propagation girvan_newman"`
}

// LayoutQuery parameters for layout computation. Unknown layout names and
// dimensions other than 2 or 3 are accepted and coerced by the analyzer.
type LayoutQuery struct {
	GraphQuery
	Layout     string  `query:"layout" validate:"required,max=32"`
	Dimensions int     `query:"dimensions" validate:"min=0,max=3"`
	Scale      float64 `query:"scale" validate:"gt=0,lte=1000000"`
}

// TemporalQuery parameters for sliding-window analysis. WindowSize is in seconds.
type TemporalQuery struct {
	GraphQuery
	WindowSize int `query:"window_size" validate:"min=1,max=315360000"`
	MaxWindows int `query:"max_windows" validate:"min=1,max=1000"`
}

// VisualizationQuery parameters for the combined visualization payload
type VisualizationQuery struct {
	GraphQuery
	Layout             string `query:"layout" validate:"required,max=32"`
	IncludeCommunities bool   `query:"include_communities"`
	IncludeMetrics     bool   `query:"include_metrics"`
	CommunityAlgorithm string `query:"community_algorithm" validate:"required,oneof=louvain greedy label_propagation girvan_newman"`
}

// ValidateQuery validates any of the query structs by their tags
func ValidateQuery(q any) error {
	if q == nil {
		return errors.New("query cannot be nil")
	}
	if err := validate.Struct(q); err != nil {
		return formatValidationError(err)
	}
	if g, ok := graphQueryOf(q); ok && g.Start != nil && g.End != nil && g.End.Before(*g.Start) {
		return errors.New("end: must not be before start")
	}
	return nil
}

func graphQueryOf(q any) (*GraphQuery, bool) {
	switch v := q.(type) {
	case *GraphQuery:
		return v, true
	case *CentralityQuery:
		return &v.GraphQuery, true
	case *CommunityQuery:
		return &v.GraphQuery, true
	case *LayoutQuery:
		return &v.GraphQuery, true
	case *TemporalQuery:
		return &v.GraphQuery, true
	case *VisualizationQuery:
		return &v.GraphQuery, true
	}
	return nil, false
}

// formatValidationError converts validator errors to a more user-friendly format
func formatValidationError(err error) error {
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	// Return the first validation error in a user-friendly format
	for _, e := range validationErrs {
		field, _, _ := strings.Cut(e.Field(), "[")
		param := e.Param()

		switch e.Tag() {
		case "required":
			return fmt.Errorf("%s: parameter is required", field)
		case "min", "gte":
			return fmt.Errorf("%s: must be at least %s", field, param)
		case "max", "lte":
			return fmt.Errorf("%s: must not exceed %s", field, param)
		case "gt":
			return fmt.Errorf("%s: must be greater than %s", field, param)
		case "oneof":
			return fmt.Errorf("%s: must be one of [%s]", field, strings.ReplaceAll(param, " ", ", "))
		default:
			return fmt.Errorf("%s: validation failed (%s)", field, e.Tag())
		}
	}

	return err
}
