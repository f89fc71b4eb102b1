package httpserver

import "github.com/go-openapi/spec"

func buildOpenAPISpec() ([]byte, error) {
	sw := spec.Swagger{
		SwaggerProps: spec.SwaggerProps{
			Swagger:  "2.0",
			BasePath: "/",
			Info: &spec.Info{InfoProps: spec.InfoProps{
				Title:       "cryptoprice-service API",
				Description: "Live bid prices from the exchange, stored per currency.",
				Version:     "1.0.0",
			}},
			Produces: []string{"application/json"},
			Paths: &spec.Paths{Paths: map[string]spec.PathItem{
				"/price/{currency}":         {PathItemProps: spec.PathItemProps{Get: priceOperation()}},
				"/price/history/{currency}": {PathItemProps: spec.PathItemProps{Get: historyOperation()}},
				"/delete/{currency}":        {PathItemProps: spec.PathItemProps{Delete: deleteOperation()}},
			}},
			Definitions: apiDefinitions(),
		},
	}
	return sw.MarshalJSON()
}

func currencyParam() spec.Parameter {
	return *spec.PathParam("currency").Typed("string", "").WithDescription("Base currency symbol, paired with USDT (e.g. btc).")
}

func priceOperation() *spec.Operation {
	op := spec.NewOperation("getPrice").
		WithSummary("Last bid price").
		WithDescription("Fetches the live bid price and appends it to the currency history.").
		WithTags("price")
	op.Parameters = []spec.Parameter{currencyParam()}
	op.Responses = responses(map[int]*spec.Response{
		200: schemaResponse("Current bid price", "#/definitions/PriceResponse"),
		400: schemaResponse("No bid price or exchange error", "#/definitions/ErrorResponse"),
	})
	return op
}

func historyOperation() *spec.Operation {
	op := spec.NewOperation("getPriceHistory").
		WithSummary("Stored prices").
		WithDescription("Returns every stored price keyed by timestamp (YYYY-MM-DD HH:MM:SS).").
		WithTags("price")
	op.Parameters = []spec.Parameter{currencyParam()}
	history := spec.MapProperty(spec.Float64Property())
	op.Responses = responses(map[int]*spec.Response{
		200: spec.NewResponse().WithDescription("Timestamp to price").WithSchema(history),
		404: schemaResponse("Table does not exist", "#/definitions/ErrorResponse"),
	})
	return op
}

func deleteOperation() *spec.Operation {
	op := spec.NewOperation("deleteCurrency").
		WithSummary("Delete currency history").
		WithDescription("Drops the currency table.").
		WithTags("price")
	idem := spec.HeaderParam("X-Idempotency-Key").Typed("string", "").WithDescription("Optional key; repeats within the window are rejected.")
	op.Parameters = []spec.Parameter{currencyParam(), *idem}
	op.Responses = responses(map[int]*spec.Response{
		200: schemaResponse("Deleted", "#/definitions/DeleteResponse"),
		404: schemaResponse("Table does not exist", "#/definitions/ErrorResponse"),
		409: schemaResponse("Duplicate idempotency key", "#/definitions/ErrorResponse"),
	})
	return op
}

func apiDefinitions() spec.Definitions {
	return spec.Definitions{
		"PriceResponse": objectSchema(map[string]spec.Schema{
			"currency":       schemaWithDescription(*spec.StringProperty(), "Currency as requested"),
			"last_bid_price": schemaWithDescription(*spec.Float64Property(), "Last bid price in USDT"),
			"time":           schemaWithDescription(*spec.StringProperty(), "Ticker time, UTC, YYYY-MM-DD HH:MM:SS"),
		}, "currency", "last_bid_price", "time"),
		"DeleteResponse": objectSchema(map[string]spec.Schema{
			deletedKey: *spec.BoolProperty(),
		}, deletedKey),
		"ErrorResponse": objectSchema(map[string]spec.Schema{
			"code":    schemaWithDescription(*spec.Int64Property(), "HTTP status"),
			"message": schemaWithDescription(*spec.StringProperty(), "Error detail"),
		}, "code", "message"),
	}
}

func responses(byCode map[int]*spec.Response) *spec.Responses {
	out := make(map[int]spec.Response, len(byCode))
	for code, r := range byCode {
		out[code] = *r
	}
	return &spec.Responses{ResponsesProps: spec.ResponsesProps{StatusCodeResponses: out}}
}

func objectSchema(props map[string]spec.Schema, required ...string) spec.Schema {
	return spec.Schema{SchemaProps: spec.SchemaProps{Type: []string{"object"}, Properties: props, Required: required}}
}

func schemaWithDescription(s spec.Schema, desc string) spec.Schema {
	s.Description = desc
	return s
}

func schemaResponse(description, schemaRef string) *spec.Response {
	return spec.NewResponse().WithDescription(description).WithSchema(spec.RefSchema(schemaRef))
}
