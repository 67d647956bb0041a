package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: outline2deck <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  export     Render outline files to presentations")
	fmt.Fprintln(w, "  normalize  Print the canonical JSON outline")
	fmt.Fprintln(w, "  inspect    Print the slides of a .pptx file")
	fmt.Fprintln(w, "  templates  List available templates")
	fmt.Fprintln(w, "  serve      Start the HTTP export API")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'outline2deck help <command>' for details on a specific command.")
}

// printExportUsage prints usage for the export command.
func printExportUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: outline2deck export <input> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Render outlines to presentations. Input is a .json, .yaml, .yml, .md or")
	fmt.Fprintln(w, ".markdown file, or a directory exported in parallel.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Input/Output:")
	fmt.Fprintln(w, "  -o, --output <path>       Output file or directory")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -w, --workers <n>         Parallel workers (0 = auto)")
	fmt.Fprintln(w, "      --asset-path <dir>    Directory with templates/*.yaml")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Deck:")
	fmt.Fprintln(w, "  -t, --template <id>       Template id (unknown ids use the default)")
	fmt.Fprintln(w, "  -f, --format <s>          Format: pptx, pdf, deck, json")
	fmt.Fprintln(w, "      --aspect <r>          Aspect ratio: 16:9, 4:3, 16:10")
	fmt.Fprintln(w, "      --title <s>           Document title (\"\" = first slide title)")
	fmt.Fprintln(w, "      --author <s>          Document author")
	fmt.Fprintln(w, "      --footer <s>          Footer label")
	fmt.Fprintln(w, "      --no-footer           Hide the footer")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show detailed timing")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintln(w, "  OUTLINE2DECK_TEMPLATE, OUTLINE2DECK_FORMAT, OUTLINE2DECK_ASPECT,")
	fmt.Fprintln(w, "  OUTLINE2DECK_FOOTER, OUTLINE2DECK_AUTHOR, OUTLINE2DECK_OUTPUT_DIR,")
	fmt.Fprintln(w, "  OUTLINE2DECK_WORKERS, OUTLINE2DECK_ASSET_PATH, OUTLINE2DECK_CONFIG")
}

func printNormalizeUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: outline2deck normalize <input> [--yaml]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Print the canonical JSON form of an outline file.")
	fmt.Fprintln(w, "--yaml prints the same outline as YAML.")
}

func printInspectUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: outline2deck inspect <file.pptx> [-v]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Print slide titles and bullets. -v adds colours.")
}

func printTemplatesUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: outline2deck templates [-c config] [-q|-v]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "List template ids. The default template is marked with '*'.")
}

// printServeUsage prints usage for the serve command.
func printServeUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: outline2deck serve [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Start the HTTP export API.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "      --addr <addr>         Listen address (default :5001, or :$PORT)")
	fmt.Fprintln(w, "      --asset-path <dir>    Directory with templates/*.yaml")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -q, --quiet               Do not print the listen address")
	fmt.Fprintln(w, "  -v, --verbose             Debug logging")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Endpoints:")
	fmt.Fprintln(w, "  GET  /health")
	fmt.Fprintln(w, "  GET  /api/templates")
	fmt.Fprintln(w, "  POST /api/export/final")
	fmt.Fprintln(w, "  POST /api/outline/normalize")
	fmt.Fprintln(w, "  POST /api/preview")
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return
	}

	switch args[0] {
	case "export":
		printExportUsage(env.Stdout)
	case "normalize":
		printNormalizeUsage(env.Stdout)
	case "inspect":
		printInspectUsage(env.Stdout)
	case "templates":
		printTemplatesUsage(env.Stdout)
	case "serve":
		printServeUsage(env.Stdout)
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: outline2deck version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: outline2deck help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
	}
}
