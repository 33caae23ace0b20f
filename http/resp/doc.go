/*
Package resp provides a high-level API for responding to HTTP requests.

The core of the package revolves around the Responder and the Fn functional options.
A Responder is configured once for the application;
handlers then call Html, Json, Redirect, or Err on it,
passing Fns such as Code, Data, Flash, or Tmpls to shape each response.

	func (h *Handler) home(w http.ResponseWriter, r *http.Request) {
		err := h.Html(w, r, resp.Tmpls(template.BaseTmpl, template.HomeTmpl), resp.Data(page))
		if err != nil {
			h.Err(w, r, err)
		}
	}
*/
package resp
