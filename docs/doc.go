// Package docs provides generated OpenAPI documentation.
//
// isbnscan API
//
//	@title			isbnscan API
//	@version		1.0
//	@description	Extracts and validates ISBN-10/ISBN-13 codes from OCR text.
//
//	@contact.name	API Support
//	@contact.url	https://github.com/jackzampolin/isbnscan
//
//	@license.name	MIT
//	@license.url	https://opensource.org/licenses/MIT
//
//	@host		localhost:8280
//	@BasePath	/
//
//	@schemes	http https
package docs

//go:generate swag init -d ../ -g docs/doc.go -o ./swagger --parseDependency --parseInternal --outputTypes go
