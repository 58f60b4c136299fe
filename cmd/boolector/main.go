package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/ndrewh/boolector"
)

func main() {
	if err := run(context.Background(), os.Args[1:]); err == flag.ErrHelp {
		os.Exit(1)
	} else if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	var cmd string
	if len(args) > 0 {
		cmd, args = args[0], args[1:]
	}

	switch cmd {
	case "", "-h", "--help", "help":
		usage()
		return flag.ErrHelp
	case "bv":
		return runBVDemo(args)
	case "array":
		return runArrayDemo(args)
	default:
		return fmt.Errorf(`boolector %s: unknown command`, cmd)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `
boolector is an inspection tool for the expression-core library: it builds
a handful of canned terms and prints their DAG and context accounting, for
use while developing against the package (there is no textual input
format -- terms are built with the Go constructor API, not parsed).

Usage:

	boolector <command> [arguments]

The commands are:

	bv       build a small bit-vector term and dump it
	array    build an array write/read term and dump it
	help     this screen
`[1:])
}

func runBVDemo(args []string) error {
	fs := flag.NewFlagSet("bv", flag.ContinueOnError)
	width := fs.Uint("width", 8, "bit-vector width")
	if err := fs.Parse(args); err != nil {
		return err
	}

	ctx := boolector.NewContext(boolector.DefaultOptions())
	defer ctx.Close()

	sort := ctx.Sorts.BitVecSort(*width)
	a := ctx.Var(sort, "a")
	b := ctx.Var(sort, "b")
	sum := ctx.Add(a, b)
	overflow := ctx.Uaddo(a, b)

	fmt.Println(boolector.Dump(sum))
	fmt.Println(boolector.Dump(overflow))
	fmt.Println(ctx.DebugDump())

	ctx.Release(overflow)
	ctx.Release(sum)
	ctx.Release(b)
	ctx.Release(a)
	return nil
}

func runArrayDemo(args []string) error {
	fs := flag.NewFlagSet("array", flag.ContinueOnError)
	indexWidth := fs.Uint("index-width", 8, "array index width")
	elemWidth := fs.Uint("elem-width", 32, "array element width")
	if err := fs.Parse(args); err != nil {
		return err
	}

	ctx := boolector.NewContext(boolector.Options{FunStoreLambdas: true})
	defer ctx.Close()

	indexSort := ctx.Sorts.BitVecSort(*indexWidth)
	elemSort := ctx.Sorts.BitVecSort(*elemWidth)
	arr := ctx.Array(indexSort, elemSort, "arr")
	idx := ctx.UnsignedConst(3, indexSort)
	val := ctx.UnsignedConst(42, elemSort)

	written := ctx.Write(arr, idx, val)
	read := ctx.Read(written, idx)

	fmt.Println(boolector.Dump(written))
	fmt.Println(boolector.Dump(read))
	fmt.Println(ctx.DebugDump())

	ctx.Release(read)
	ctx.Release(written)
	ctx.Release(val)
	ctx.Release(idx)
	ctx.Release(arr)
	return nil
}
