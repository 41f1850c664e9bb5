package mcp

import _ "embed"

var (
	//go:embed templates/basic_hello_world_app.py
	basicHelloWorldApp string

	//go:embed templates/intermediate_hello_world_app.py
	intermediateHelloWorldApp string
)
