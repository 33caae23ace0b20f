package view

// LoginParams are the query parameters /login accepts.
type LoginParams struct {
	// Connection names the vendor connection to sign in through, e.g., google-oauth2.
	Connection string `schema:"connection"`
	Prompt     string `schema:"prompt" validate:"omitempty,oneof=none login consent select_account"`
}

// CallbackParams are the query parameters the vendor redirects back to /callback with.
// The vendor sets either Code or Error.
type CallbackParams struct {
	Code             string `schema:"code" validate:"required_without=Error"`
	Error            string `schema:"error"`
	ErrorDescription string `schema:"error_description"`
	State            string `schema:"state" validate:"required"`
}
