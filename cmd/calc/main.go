// Command calc reads infix expressions from standard input, one per line,
// and prints their values. An empty line ends the session.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alecthomas/repr"

	"github.com/aogrady3/Stack-Expressions/pkg/calc"
)

const helpText = `Please enter an infix expression.
This program will then tell you the new value.
To stop the program, just hit "return" after the prompt.`

const maxHelpAttempts = 3

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("calc", flag.ContinueOnError)
	fs.SetOutput(stderr)
	trace := fs.Bool("trace", false, "print every reduction")
	noHelp := fs.Bool("nohelp", false, "skip the help question")
	expr := fs.String("e", "", "evaluate a single expression and exit")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	c := &cli{out: stdout, errOut: stderr, trace: *trace}

	if *expr != "" {
		if !c.evaluate(*expr) {
			return 1
		}
		return 0
	}

	in := bufio.NewScanner(stdin)
	if !*noHelp {
		provideHelpIfNecessary(in, stdout)
	}

	for {
		fmt.Fprint(stdout, "Expression? ")
		if !in.Scan() {
			break
		}
		line := strings.TrimRight(in.Text(), "\r")
		if line == "" {
			break
		}
		c.evaluate(line)
	}
	fmt.Fprintln(stdout)

	if err := in.Err(); err != nil {
		fmt.Fprintln(stderr, "error reading input:", err)
		return 1
	}
	return 0
}

// provideHelpIfNecessary asks whether the user wants help, retrying a
// bounded number of times on an unrecognised answer.
func provideHelpIfNecessary(in *bufio.Scanner, out io.Writer) {
	for attempt := 0; attempt < maxHelpAttempts; attempt++ {
		fmt.Fprint(out, "Do you need help (Y/N)? ")
		if !in.Scan() {
			return
		}
		switch strings.TrimSpace(in.Text()) {
		case "Y", "y":
			fmt.Fprintln(out, helpText)
			return
		case "N", "n":
			return
		}
		fmt.Fprintln(out, `Response must be either "Y" or "N".`)
	}
}

type cli struct {
	out    io.Writer
	errOut io.Writer
	trace  bool
}

func (c *cli) evaluate(expr string) bool {
	steps, res, err := calc.Trace(expr)
	if c.trace && len(steps) > 0 {
		repr.New(c.out).Println(steps)
	}
	if err != nil {
		fmt.Fprintln(c.errOut, err)
		return false
	}
	fmt.Fprintln(c.out, res)
	return true
}
