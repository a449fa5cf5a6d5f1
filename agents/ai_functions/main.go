// ai_functions: natural-language function dispatch
// Motto: "Say what you want, get the function that does it"
//
// One query, one function call:
//
//	decision = LLM(query, registered function names)
//	result   = registry[decision.function](decision.args...)
//
// +----------+    +-------+    +----------+    +----------+
// | User     | -> | LLM   | -> | Registry | -> | Function |
// | query    |    | JSON  |    | lookup   |    | invoke   |
// +----------+    +-------+    +----------+    +----+-----+
//
//	                                               |
//	                           result text  <------+
//
// Functions come from compiled-in plugins registered at startup; the model
// only ever chooses among them.
package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/nickdu2009/ai-functions/pkg/capabilities"
	"github.com/nickdu2009/ai-functions/pkg/config"
	"github.com/nickdu2009/ai-functions/pkg/dispatch"
	"github.com/nickdu2009/ai-functions/pkg/llm"
	"github.com/nickdu2009/ai-functions/pkg/logging"
	"github.com/nickdu2009/ai-functions/pkg/tools"
)

// ANSI 颜色码
const (
	colorCyan  = "\033[36m"
	colorReset = "\033[0m"
)

var demoQueries = []string{
	"What is 10 plus 2?",
	"Can you lowercase the string 'HELLO WORLD'?",
	"Calculate 5 to the power of 3.",
}

// completerFactory 构造 LLM 客户端，测试时注入 mock。
type completerFactory func(cfg llm.Config) (dispatch.Completer, error)

func newLLMClient(cfg llm.Config) (dispatch.Completer, error) {
	c, err := llm.NewClient(cfg)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// builtinPlugins lists every plugin registered at startup, in registration order.
func builtinPlugins() []tools.Factory {
	return []tools.Factory{
		capabilities.NewArithmetic,
		capabilities.NewStrings,
	}
}

func main() {
	if err := godotenv.Load(); err != nil {
		fmt.Fprintln(os.Stderr, "no .env file found, using system env")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(newLLMClient).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		os.Exit(1)
	}
}

func newRootCmd(newLLM completerFactory) *cobra.Command {
	var (
		cfgFile     string
		queries     []string
		interactive bool
		verbose     bool
	)

	cmd := &cobra.Command{
		Use:           "ai_functions [query...]",
		Short:         "Map natural-language queries onto registered functions",
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgFile)
			if err != nil {
				return err
			}
			level := cfg.LogLevel
			if verbose {
				level = "debug"
			}
			log := logging.New(cmd.ErrOrStderr(), level)

			registry := tools.Discover(logging.Component(log, "registry"), cfg.NamingPolicy(), builtinPlugins()...)
			client, err := newLLM(cfg.LLM())
			if err != nil {
				return err
			}
			d := dispatch.New(client, registry, logging.Component(log, "dispatch"))

			if interactive {
				return repl(cmd.Context(), d, cmd.InOrStdin(), cmd.OutOrStdout())
			}

			queries = append(queries, args...)
			if len(queries) == 0 {
				queries = demoQueries
			}
			runQueries(cmd.Context(), d, queries, cmd.OutOrStdout())
			return nil
		},
	}

	cmd.Flags().StringVar(&cfgFile, "config", "", "YAML config file (env AIFN_* overrides)")
	cmd.Flags().StringArrayVarP(&queries, "query", "q", nil, "query to dispatch (repeatable)")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "read queries from stdin")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log raw model replies")
	return cmd
}

// runQueries 逐条分发查询；单条失败只体现在输出文本中。
func runQueries(ctx context.Context, d *dispatch.Dispatcher, queries []string, out io.Writer) {
	for _, q := range queries {
		fmt.Fprintf(out, "Query: %s\n", q)
		fmt.Fprintf(out, "Result: %s\n\n", d.Process(ctx, q))
	}
}

// repl 读取标准输入，直到空行、q、exit 或 EOF。
func repl(ctx context.Context, d *dispatch.Dispatcher, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprintf(out, "%sai >> %s", colorCyan, colorReset)
		if !scanner.Scan() {
			break
		}
		query := strings.TrimSpace(scanner.Text())
		if query == "" || query == "q" || query == "exit" {
			break
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		fmt.Fprintln(out, d.Process(ctx, query))
		fmt.Fprintln(out)
	}
	return scanner.Err()
}
