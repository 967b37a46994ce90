package main

import (
	"os"

	"page-assistant/backend/internal/app"
)

// @title Page Assistant API
// @version 1.0
// @description Backend for a page-assistant client: invokes hosted LLM APIs on
// @description page content and streams the answer to connected viewers.
// @BasePath /api/v1
func main() {
	os.Exit(app.Run())
}
