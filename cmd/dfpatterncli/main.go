package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gitrdm/dfpattern/pkg/dfpattern"
	"github.com/gitrdm/dfpattern/pkg/expr"
	"github.com/gitrdm/dfpattern/pkg/exprgraph"
	"github.com/gitrdm/dfpattern/pkg/opattrs"
	"github.com/gitrdm/dfpattern/pkg/pattern"
	"github.com/gitrdm/dfpattern/pkg/tracing"
)

var version = "0.1.0"

func main() {
	expr.RegisterStructuralEqual(expr.DefaultStructuralEqual)

	root := &cobra.Command{
		Use:     "dfpatterncli",
		Short:   "Exercise the dataflow pattern matcher against worked scenarios",
		Version: version,
	}

	root.AddCommand(matchCmd())
	root.AddCommand(traceCmd())
	root.AddCommand(dominatorCmd())
	root.AddCommand(attrCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// convBiasRelu builds conv2d(x, w) -> add(., bias) -> relu(.), the
// canonical "fuse conv+bias+relu" scenario spec §8 walks through.
func convBiasRelu() (root expr.Expr, conv, add expr.Expr) {
	x := expr.NewVar("x")
	w := expr.NewVar("w")
	bias := expr.NewVar("bias")
	conv = expr.NewCall(expr.NewOp("conv2d"), []expr.Expr{x, w}, nil)
	add = expr.NewCall(expr.NewOp("add"), []expr.Expr{conv, bias}, nil)
	root = expr.NewCall(expr.NewOp("relu"), []expr.Expr{add}, nil)
	return root, conv, add
}

func convBiasReluPattern() pattern.Pattern {
	x := pattern.NewWildcard()
	w := pattern.NewWildcard()
	bias := pattern.NewWildcard()
	conv := pattern.NewCall(pattern.NewOp("conv2d"), x, w)
	add := pattern.NewCall(pattern.NewOp("add"), conv, bias)
	return pattern.NewCall(pattern.NewOp("relu"), add)
}

func matchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "match",
		Short: "Run the conv+bias+relu fusion pattern against its worked-example graph",
		RunE: func(cmd *cobra.Command, args []string) error {
			root, _, _ := convBiasRelu()
			p := convBiasReluPattern()
			matched := dfpattern.Match(p, root)
			renderResult("conv2d-add-relu", root.String(), matched)
			return nil
		},
	}
}

func traceCmd() *cobra.Command {
	var level string
	cmd := &cobra.Command{
		Use:   "trace",
		Short: "Run the same match with an hclog trace logger attached",
		RunE: func(cmd *cobra.Command, args []string) error {
			root, _, _ := convBiasRelu()
			p := convBiasReluPattern()
			logger := tracing.New("dfpatterncli", level)
			matched := dfpattern.Match(p, root, dfpattern.WithLogger(logger))
			renderResult("conv2d-add-relu (traced)", root.String(), matched)
			return nil
		},
	}
	cmd.Flags().StringVar(&level, "level", "debug", "hclog level (trace, debug, info, warn, error)")
	return cmd
}

func attrCmd() *cobra.Command {
	var schemaPath string
	cmd := &cobra.Command{
		Use:   "attr",
		Short: "Match conv2d's own attribute schema via the op-attribute registry",
		RunE: func(cmd *cobra.Command, args []string) error {
			reg := opattrs.Default()
			if schemaPath != "" {
				loaded, err := opattrs.Load(schemaPath)
				if err != nil {
					return err
				}
				reg = loaded
			}

			conv := pattern.NewCall(pattern.NewAttr(pattern.NewOp("conv2d"), map[string]interface{}{
				"padding": "SAME",
			}), pattern.NewWildcard(), pattern.NewWildcard())

			root, _, _ := convBiasRelu()
			matched := dfpattern.Match(conv, firstConv2d(root), dfpattern.WithOpAttrs(reg))
			renderResult("conv2d padding=SAME (op-attribute registry)", root.String(), matched)
			return nil
		},
	}
	cmd.Flags().StringVar(&schemaPath, "schema", "", "path to a TOML op-attribute schema (defaults to the built-in table)")
	return cmd
}

// firstConv2d walks root down its first operand chain to the conv2d
// call convBiasRelu always builds at the bottom.
func firstConv2d(root expr.Expr) expr.Expr {
	cur := root
	for {
		call, ok := cur.(*expr.Call)
		if !ok || len(call.Args) == 0 {
			return cur
		}
		if op, ok := call.Op.(*expr.Op); ok && op.Name == "conv2d" {
			return call
		}
		cur = call.Args[0]
	}
}

func dominatorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dominator",
		Short: "Check whether conv2d is dominated by relu through an add-only path",
		RunE: func(cmd *cobra.Command, args []string) error {
			root, conv, _ := convBiasRelu()
			g := exprgraph.Build(root)

			child := pattern.NewCallAnyArity(pattern.NewOp("conv2d"))
			path := pattern.NewCallAnyArity(pattern.NewOp("add"))
			parent := pattern.NewCallAnyArity(pattern.NewOp("relu"))
			dom := pattern.NewDominator(child, path, parent)

			matched := dfpattern.Match(dom, conv, dfpattern.WithGraph(g))
			renderResult("conv2d dominated by relu", fmt.Sprintf("%s (root: %s)", conv, root), matched)
			return nil
		},
	}
}
