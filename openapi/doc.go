// Package openapi builds OpenAPI 3 documents from reqvalidation schemas and
// serves them with Swagger UI.
//
// Create a document with [DocBase], register operations with [AddEndpoint]
// (or the panicking [Get], [Post], [Put], [Patch] and [Delete]) and mount
// [SwaggerHandlerMust]:
//
//	doc := openapi.DocBase("my-api", "My API", "1.0")
//	openapi.Post(doc, "/users/{userId}", "updateUser", openapi.Endpoint{
//	    Schemas:  v.Schemas{v.PartParam: params, v.PartBody: body},
//	    Response: User{},
//	})
//	r.Handle("/swagger/*", openapi.SwaggerHandlerMust("/swagger/", doc))
//
// Path and query schemas are projected field by field with [Params].
package openapi
