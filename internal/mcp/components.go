package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/pmui/pmui-mcp/internal/catalog"
	"github.com/pmui/pmui-mcp/internal/components"
)

const componentsInstructions = `This server provides access to Panel Material UI (https://panel-material-ui.holoviz.org/reference/index.html) resources and tools.
The panel-material-ui python package provides a large collection of components for building
interactive Panel (https://panel.holoviz.org/) web applications with a Material Design look and feel.

Use this server to access:
- Panel Material UI components: Explore and use various components for building interactive applications.
- Example applications: Get example code to kickstart your Panel projects.`

// NewComponentsServer exposes the component collection. With aliases set,
// the long tool names (get_component_info, search_components, ...) are
// registered next to the short ones.
func NewComponentsServer(cat *catalog.Catalog, aliases bool) *SubServer {
	h := &componentHandlers{cat: cat}

	componentArg := mcp.WithString("component_name",
		mcp.Required(),
		mcp.Description("Component class name, e.g. 'Button' (case-insensitive)"))

	tools := []Tool{
		{
			Name: "get_all",
			Options: []mcp.ToolOption{
				mcp.WithDescription(`Lists all Panel Material UI components with summary information.

WHEN TO USE: Call this first to get an overview of the available components.

Returns: name, module_path, init_signature, description and docstring of every component.`),
				mcp.WithReadOnlyHintAnnotation(true),
			},
			Handler: h.getAll,
		},
		{
			Name: "get",
			Options: []mcp.ToolOption{
				mcp.WithDescription(`Returns detailed information about a specific Panel Material UI component, including its parameters and usage.

If the name is not found, the error lists close matches or available components.`),
				componentArg,
				mcp.WithReadOnlyHintAnnotation(true),
			},
			Handler: h.get,
		},
		{
			Name: "get_module_path",
			Options: []mcp.ToolOption{
				mcp.WithDescription("Returns the module path where a Panel Material UI component is defined, e.g. panel_material_ui.widgets.button.Button."),
				componentArg,
				mcp.WithReadOnlyHintAnnotation(true),
			},
			Handler: h.getModulePath,
		},
		{
			Name: "get_constructor",
			Options: []mcp.ToolOption{
				mcp.WithDescription("Returns the __init__ signature of a Panel Material UI component. Use it to understand how to instantiate the component."),
				componentArg,
				mcp.WithReadOnlyHintAnnotation(true),
			},
			Handler: h.getConstructor,
		},
		{
			Name: "get_parameters",
			Options: []mcp.ToolOption{
				mcp.WithDescription(`Returns all parameters of a Panel Material UI component.

Each parameter has: type, default, doc, allow_None, constant, readonly, per_instance, objects, bounds, regex.
Values that cannot be represented as JSON are reported as "NON_JSON_SERIALIZABLE_VALUE".`),
				componentArg,
				mcp.WithReadOnlyHintAnnotation(true),
			},
			Handler: h.getParameters,
		},
		{
			Name: "get_parameter",
			Options: []mcp.ToolOption{
				mcp.WithDescription("Returns type, default value and documentation of one parameter of a Panel Material UI component."),
				componentArg,
				mcp.WithString("parameter_name",
					mcp.Required(),
					mcp.Description("Parameter name, e.g. 'label'")),
				mcp.WithReadOnlyHintAnnotation(true),
			},
			Handler: h.getParameter,
		},
		{
			Name: "search",
			Options: []mcp.ToolOption{
				mcp.WithDescription(`Search Panel Material UI components by name, module path or docstring.

WHEN TO USE: When you need a component for a task but don't know its name.

Example queries: "button", "date range slider", "select multiple"

Returns: matching components with relevance_score, best first.`),
				mcp.WithString("query",
					mcp.Required(),
					mcp.Description("Search terms")),
				mcp.WithNumber("limit",
					mcp.Description("Maximum number of results (default: 10)")),
				mcp.WithReadOnlyHintAnnotation(true),
			},
			Handler: h.search,
		},
	}

	if aliases {
		tools = append(tools, aliasTools(tools, map[string]string{
			"get_all":         "get_all_components",
			"get":             "get_component_info",
			"get_constructor": "get_component_constructor",
			"get_parameters":  "get_component_parameters",
			"get_parameter":   "get_component_parameter",
			"search":          "search_components",
		})...)
	}

	return &SubServer{
		Name:         "Panel Material UI",
		Prefix:       "components",
		Instructions: componentsInstructions,
		Tools:        tools,
		Resources: []Resource{
			{
				URI:         "app://basic/hello_world",
				Name:        "Basic Hello World App",
				Description: `A basic level, interactive "Hello World" app using Panel Material UI components and following the best practice guidelines.`,
				MIMEType:    "text/python",
				Read:        staticText(basicHelloWorldApp),
			},
			{
				URI:  "app://intermediate/hello_world",
				Name: "Intermediate Hello World App",
				Description: `An intermediate level, interactive "Hello World" app using Panel Material UI components and following the best practice guidelines.
ALWAYS use this resource before creating an app using Panel Material UI components.`,
				MIMEType: "text/python",
				Read:     staticText(intermediateHelloWorldApp),
			},
		},
	}
}

// aliasTools copies the named tools under their alias names.
func aliasTools(tools []Tool, aliases map[string]string) []Tool {
	var out []Tool
	for _, t := range tools {
		if alias, ok := aliases[t.Name]; ok {
			out = append(out, Tool{Name: alias, Options: t.Options, Handler: t.Handler})
		}
	}
	return out
}

func staticText(text string) func(context.Context) (string, error) {
	return func(context.Context) (string, error) { return text, nil }
}

type componentHandlers struct {
	cat *catalog.Catalog
}

// component resolves the component_name argument.
func (h *componentHandlers) component(request mcp.CallToolRequest) (components.ComponentInfo, *mcp.CallToolResult, error) {
	name, err := request.RequireString("component_name")
	if err != nil {
		return components.ComponentInfo{}, mcp.NewToolResultError(err.Error()), nil
	}
	info, err := h.cat.Components.Get(name)
	if err != nil {
		res, err := lookupError(err)
		return components.ComponentInfo{}, res, err
	}
	return info, nil, nil
}

func (h *componentHandlers) getAll(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return marshalToolResponse(h.cat.Components.Summaries())
}

func (h *componentHandlers) get(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	info, res, err := h.component(request)
	if res != nil || err != nil {
		return res, err
	}
	return marshalToolResponse(info)
}

func (h *componentHandlers) getModulePath(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	info, res, err := h.component(request)
	if res != nil || err != nil {
		return res, err
	}
	return mcp.NewToolResultText(info.ModulePath), nil
}

func (h *componentHandlers) getConstructor(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	info, res, err := h.component(request)
	if res != nil || err != nil {
		return res, err
	}
	return mcp.NewToolResultText(info.InitSignature), nil
}

func (h *componentHandlers) getParameters(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	info, res, err := h.component(request)
	if res != nil || err != nil {
		return res, err
	}
	return marshalToolResponse(info.Parameters)
}

func (h *componentHandlers) getParameter(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	info, res, err := h.component(request)
	if res != nil || err != nil {
		return res, err
	}
	name, err := request.RequireString("parameter_name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	p, err := info.Parameter(name)
	if err != nil {
		return lookupError(err)
	}
	return marshalToolResponse(p)
}

func (h *componentHandlers) search(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, limit, res := queryArgs(request)
	if res != nil {
		return res, nil
	}
	return marshalToolResponse(h.cat.SearchComponents(query, limit))
}
