package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"

	"github.com/nyayasahayak/legallibrary/internal/core/domain"
	"github.com/nyayasahayak/legallibrary/internal/core/usecases"
)

// buildSchema creates the GraphQL schema wired to our services. Field names
// follow the JSON tags of the domain types so the default resolver applies.
func buildSchema(deps *Dependencies) (graphql.Schema, error) {
	geoPointType := graphql.NewObject(graphql.ObjectConfig{
		Name: "GeoPoint",
		Fields: graphql.Fields{
			"lat": &graphql.Field{Type: graphql.Float},
			"lon": &graphql.Field{Type: graphql.Float},
		},
	})

	sectionType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Section",
		Fields: graphql.Fields{
			"section_number": &graphql.Field{Type: graphql.String},
			"title":          &graphql.Field{Type: graphql.String},
			"content":        &graphql.Field{Type: graphql.String},
		},
	})

	actType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Act",
		Fields: graphql.Fields{
			"act_id":      &graphql.Field{Type: graphql.String},
			"act_name":    &graphql.Field{Type: graphql.String},
			"description": &graphql.Field{Type: graphql.String},
			"sections":    &graphql.Field{Type: graphql.NewList(sectionType)},
		},
	})

	articleType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Article",
		Fields: graphql.Fields{
			"id":             &graphql.Field{Type: graphql.String},
			"article_number": &graphql.Field{Type: graphql.String},
			"title":          &graphql.Field{Type: graphql.String},
			"part":           &graphql.Field{Type: graphql.String},
			"content":        &graphql.Field{Type: graphql.String},
		},
	})

	caseType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Case",
		Fields: graphql.Fields{
			"id":       &graphql.Field{Type: graphql.String},
			"title":    &graphql.Field{Type: graphql.String},
			"citation": &graphql.Field{Type: graphql.String},
			"court":    &graphql.Field{Type: graphql.String},
			"year":     &graphql.Field{Type: graphql.Int},
			"summary":  &graphql.Field{Type: graphql.String},
			"category": &graphql.Field{Type: graphql.String},
		},
	})

	lawyerType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Lawyer",
		Fields: graphql.Fields{
			"id":                 &graphql.Field{Type: graphql.String},
			"name":               &graphql.Field{Type: graphql.String},
			"city":               &graphql.Field{Type: graphql.String},
			"state":              &graphql.Field{Type: graphql.String},
			"phone":              &graphql.Field{Type: graphql.String},
			"email":              &graphql.Field{Type: graphql.String},
			"court":              &graphql.Field{Type: graphql.String},
			"enrollment_number":  &graphql.Field{Type: graphql.String},
			"is_senior_advocate": &graphql.Field{Type: graphql.Boolean},
			"is_verified":        &graphql.Field{Type: graphql.Boolean},
			"experience_years":   &graphql.Field{Type: graphql.Int},
			"rating":             &graphql.Field{Type: graphql.Float},
			"reviews":            &graphql.Field{Type: graphql.Int},
			"fee_per_hour":       &graphql.Field{Type: graphql.Int},
			"expertise":          &graphql.Field{Type: graphql.String},
			"specializations":    &graphql.Field{Type: graphql.NewList(graphql.String)},
			"languages":          &graphql.Field{Type: graphql.NewList(graphql.String)},
			"description":        &graphql.Field{Type: graphql.String},
			"location":           &graphql.Field{Type: geoPointType},
			"distance_km":        &graphql.Field{Type: graphql.Float},
		},
	})

	stateType := graphql.NewObject(graphql.ObjectConfig{
		Name: "State",
		Fields: graphql.Fields{
			"code": &graphql.Field{Type: graphql.String},
			"name": &graphql.Field{Type: graphql.String},
			"type": &graphql.Field{Type: graphql.String},
		},
	})

	districtType := graphql.NewObject(graphql.ObjectConfig{
		Name: "District",
		Fields: graphql.Fields{
			"code":       &graphql.Field{Type: graphql.String},
			"name":       &graphql.Field{Type: graphql.String},
			"state_code": &graphql.Field{Type: graphql.String},
			"state_name": &graphql.Field{Type: graphql.String},
		},
	})

	stationType := graphql.NewObject(graphql.ObjectConfig{
		Name: "PoliceStation",
		Fields: graphql.Fields{
			"code":          &graphql.Field{Type: graphql.String},
			"name":          &graphql.Field{Type: graphql.String},
			"district_code": &graphql.Field{Type: graphql.String},
			"district_name": &graphql.Field{Type: graphql.String},
			"state_code":    &graphql.Field{Type: graphql.String},
			"type":          &graphql.Field{Type: graphql.String},
			"address":       &graphql.Field{Type: graphql.String},
			"phone":         &graphql.Field{Type: graphql.String},
			"location":      &graphql.Field{Type: geoPointType},
			"source":        &graphql.Field{Type: graphql.String},
			"distance_km":   &graphql.Field{Type: graphql.Float},
		},
	})

	statusChangeType := graphql.NewObject(graphql.ObjectConfig{
		Name: "FIRStatusChange",
		Fields: graphql.Fields{
			"from": &graphql.Field{Type: graphql.String},
			"to":   &graphql.Field{Type: graphql.String},
			"note": &graphql.Field{Type: graphql.String},
			"at":   &graphql.Field{Type: graphql.DateTime},
		},
	})

	// Complainant contact details are left out on purpose.
	firType := graphql.NewObject(graphql.ObjectConfig{
		Name: "FIR",
		Fields: graphql.Fields{
			"fir_id":              &graphql.Field{Type: graphql.String},
			"state_code":          &graphql.Field{Type: graphql.String},
			"district_code":       &graphql.Field{Type: graphql.String},
			"police_station_code": &graphql.Field{Type: graphql.String},
			"incident_type":       &graphql.Field{Type: graphql.String},
			"incident_date":       &graphql.Field{Type: graphql.DateTime},
			"status":              &graphql.Field{Type: graphql.String},
			"history":             &graphql.Field{Type: graphql.NewList(statusChangeType)},
			"created_at":          &graphql.Field{Type: graphql.DateTime},
			"updated_at":          &graphql.Field{Type: graphql.DateTime},
		},
	})

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"lawyers": &graphql.Field{
				Type:        graphql.NewList(lawyerType),
				Description: "Search the lawyer directory",
				Args: graphql.FieldConfigArgument{
					"search":    &graphql.ArgumentConfig{Type: graphql.String, DefaultValue: ""},
					"city":      &graphql.ArgumentConfig{Type: graphql.String, DefaultValue: ""},
					"expertise": &graphql.ArgumentConfig{Type: graphql.String, DefaultValue: ""},
					"minRating": &graphql.ArgumentConfig{Type: graphql.Float},
					"lat":       &graphql.ArgumentConfig{Type: graphql.Float},
					"lng":       &graphql.ArgumentConfig{Type: graphql.Float},
					"radius":    &graphql.ArgumentConfig{Type: graphql.Float, DefaultValue: float64(usecases.DefaultSearchRadiusKm)},
					"limit":     &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 50},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					f := domain.LawyerFilter{
						Search:    p.Args["search"].(string),
						City:      p.Args["city"].(string),
						Expertise: p.Args["expertise"].(string),
						RadiusKm:  p.Args["radius"].(float64),
					}
					if r, ok := p.Args["minRating"].(float64); ok {
						f.MinRating = &r
					}
					lat, hasLat := p.Args["lat"].(float64)
					lng, hasLng := p.Args["lng"].(float64)
					if hasLat && hasLng {
						f.Near = &domain.GeoPoint{Lat: lat, Lon: lng}
					}
					lawyers, err := deps.Lawyers.Search(p.Context, f)
					if err != nil {
						return nil, err
					}
					if limit := p.Args["limit"].(int); limit > 0 && len(lawyers) > limit {
						lawyers = lawyers[:limit]
					}
					return lawyers, nil
				},
			},
			"acts": &graphql.Field{
				Type:        graphql.NewList(actType),
				Description: "List all acts",
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Legal.ListActs(p.Context)
				},
			},
			"act": &graphql.Field{
				Type:        actType,
				Description: "Get an act by id or by part of its name",
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Legal.GetAct(p.Context, p.Args["id"].(string))
				},
			},
			"articles": &graphql.Field{
				Type:        graphql.NewList(articleType),
				Description: "List constitution articles",
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Legal.ListArticles(p.Context)
				},
			},
			"cases": &graphql.Field{
				Type:        graphql.NewList(caseType),
				Description: "List reported cases",
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Legal.ListCases(p.Context)
				},
			},
			"states": &graphql.Field{
				Type:        graphql.NewList(stateType),
				Description: "List states and union territories",
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Locations.ListStates(p.Context)
				},
			},
			"districts": &graphql.Field{
				Type:        graphql.NewList(districtType),
				Description: "List the districts of a state",
				Args: graphql.FieldConfigArgument{
					"state_code": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Locations.ListDistricts(p.Context, p.Args["state_code"].(string))
				},
			},
			"stations": &graphql.Field{
				Type:        graphql.NewList(stationType),
				Description: "List the catalogue police stations of a district",
				Args: graphql.FieldConfigArgument{
					"district_code": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Locations.ListStations(p.Context, p.Args["district_code"].(string))
				},
			},
			"fir": &graphql.Field{
				Type:        firType,
				Description: "Track an FIR by id",
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.FIRs.Track(p.Context, p.Args["id"].(string))
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query: queryType,
	})
}

// GraphQLHandler serves the GraphQL endpoint.
func GraphQLHandler(deps *Dependencies) fiber.Handler {
	schema, err := buildSchema(deps)
	if err != nil {
		// This would be a programming error in the schema definition
		panic("graphql schema build: " + err.Error())
	}

	type gqlRequest struct {
		Query         string                 `json:"query"`
		OperationName string                 `json:"operationName"`
		Variables     map[string]interface{} `json:"variables"`
	}

	return func(c *fiber.Ctx) error {
		var req gqlRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		if req.Query == "" {
			return errBadRequest(c, "query is required")
		}

		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  req.Query,
			VariableValues: req.Variables,
			OperationName:  req.OperationName,
			Context:        c.UserContext(),
		})

		return c.JSON(result)
	}
}
