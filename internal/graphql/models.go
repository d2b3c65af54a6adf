package graphql

// QuoteShipmentInput is the input of the quoteShipment mutation.
type QuoteShipmentInput struct {
	PartnerID     string
	UserAddressID string
}

// Request is a GraphQL-over-HTTP request body.
type Request struct {
	Query         string                 `json:"query"`
	OperationName string                 `json:"operationName,omitempty"`
	Variables     map[string]interface{} `json:"variables,omitempty"`
}
