// Package response normalizes transport outcomes into the (error, result,
// raw response) envelope delivered to callers.
//
// Wrap converts a caller continuation into a transport callback. Responses
// with a status code of 400 or above become a *StatusError carrying the code,
// body and headers; transport errors pass through unchanged.
//
//	t.Send(ctx, req, response.Wrap(func(err error, result any, resp *request.Response) {
//	    if response.IsStatus(err, http.StatusNotFound) {
//	        // ...
//	    }
//	}))
//
// Future and Await turn the callback form into a blocking call.
package response
