// Copyright 2014 The Cayley Authors. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package repl is an interactive console for the SPARQL endpoint.
package repl

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/peterh/liner"

	"github.com/skolemgraph/skolem/clog"
	"github.com/skolemgraph/skolem/config"
	"github.com/skolemgraph/skolem/indexer"
	"github.com/skolemgraph/skolem/sparql"
)

func trace(s string) (string, time.Time) {
	return s, time.Now()
}

func un(s string, startTime time.Time) {
	endTime := time.Now()

	fmt.Printf(s, float64(endTime.UnixNano()-startTime.UnixNano())/float64(1e6))
}

// Run sends one query to the endpoint and prints up to limit rows.
func Run(ctx context.Context, cli *sparql.Client, qu string, limit int) error {
	nResults := 0
	startTrace, startTime := trace("Elapsed time: %g ms\n\n")
	defer func() {
		if nResults > 0 {
			un(startTrace, startTime)
		}
	}()
	fmt.Printf("\n")
	rows, err := cli.Select(ctx, qu)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next(ctx) {
		printRow(rows.Vars(), rows.Binding())
		nResults++
		if limit > 0 && nResults >= limit {
			fmt.Printf("(stopped after %d rows)\n", limit)
			break
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}
	if nResults > 0 {
		results := "Result"
		if nResults > 1 {
			results += "s"
		}
		fmt.Printf("-----------\n%d %s\n", nResults, results)
	}
	return nil
}

func printRow(vars []string, b sparql.Binding) {
	if len(vars) == 0 {
		for v := range b {
			vars = append(vars, v)
		}
		sort.Strings(vars)
	}
	parts := make([]string, 0, len(b))
	for _, v := range vars {
		val, ok := b[v]
		if !ok {
			continue
		}
		if val == nil || val.Value == nil {
			parts = append(parts, fmt.Sprintf("?%s = null", v))
			continue
		}
		parts = append(parts, fmt.Sprintf("?%s = %s", v, val.Value))
	}
	fmt.Println(strings.Join(parts, "\t"))
}

const (
	ps1 = "skolem> "
	ps2 = "...     "

	history = ".skolem_history"

	defaultLimit = 100
)

// Repl reads queries from the terminal and runs them against the
// configured endpoint. A query is submitted once its braces balance.
func Repl(ctx context.Context, cfg *config.Config) error {
	cli := sparql.NewClient(cfg.SPARQL.URI, cfg.SPARQL.Timeout)

	term, err := terminal(history)
	if os.IsNotExist(err) {
		fmt.Printf("creating new history file: %q\n", history)
	}
	defer persist(term, history)

	var (
		prompt = ps1

		code  string
		limit = defaultLimit
	)

	newCtx := func() (context.Context, func()) { return ctx, func() {} }
	if cfg.SPARQL.Timeout > 0 {
		newCtx = func() (context.Context, func()) { return context.WithTimeout(ctx, cfg.SPARQL.Timeout) }
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if len(code) == 0 {
			prompt = ps1
		} else {
			prompt = ps2
		}
		line, err := term.Prompt(prompt)
		if err != nil {
			if err == io.EOF {
				fmt.Println()
				return nil
			}
			return err
		}

		term.AppendHistory(line)

		line = strings.TrimSpace(line)
		if len(line) == 0 || line[0] == '#' {
			continue
		}

		if code == "" {
			cmd, args := splitLine(line)

			switch cmd {
			case ":debug":
				args = strings.TrimSpace(args)
				var debug bool
				switch args {
				case "t":
					debug = true
				case "f":
					// Do nothing.
				default:
					debug, err = strconv.ParseBool(args)
					if err != nil {
						fmt.Printf("Error: cannot parse %q as a valid boolean - acceptable values: 't'|'true' or 'f'|'false'\n", args)
						continue
					}
				}
				if debug {
					clog.SetV(2)
				} else {
					clog.SetV(0)
				}
				fmt.Printf("Debug set to %t\n", debug)
				continue

			case ":limit":
				n, err := strconv.Atoi(strings.TrimSpace(args))
				if err != nil || n < 0 {
					fmt.Printf("Error: cannot parse %q as a row limit\n", strings.TrimSpace(args))
					continue
				}
				limit = n
				fmt.Printf("Row limit set to %d\n", limit)
				continue

			case ":gen":
				fields := strings.Fields(args)
				if len(fields) != 2 {
					fmt.Printf("Usage: :gen <index> <type>\n")
					continue
				}
				ix, err := indexer.New(cfg, fields[0], fields[1])
				if err != nil {
					fmt.Println("Error: ", err)
					continue
				}
				fmt.Println(ix.Query())
				nctx, cancel := newCtx()
				err = Run(nctx, cli, ix.Query(), limit)
				cancel()
				if err != nil {
					fmt.Println("Error: ", err)
				}
				continue

			case "help":
				fmt.Printf("Help\n\texit // Exit\n\thelp // this help\n\t:gen <index> <type> // run the generated query of a document type\n\t:limit <n> // print at most n rows per query\n\t:debug [t|f]\n")
				continue

			case "exit":
				term.Close()
				os.Exit(0)

			default:
				if cmd[0] == ':' {
					fmt.Printf("Unknown command: %q\n", cmd)
					continue
				}
			}
		}

		if code == "" {
			code = line
		} else {
			code += "\n" + line
		}
		if !balanced(code) {
			// collect more input
			continue
		}

		nctx, cancel := newCtx()
		err = Run(nctx, cli, code, limit)
		cancel()
		if err != nil {
			fmt.Println("Error: ", err)
		}
		code = ""
	}
}

// balanced reports whether every group opened in the query text has been
// closed again, ignoring IRIs and string literals.
func balanced(code string) bool {
	depth := 0
	var quote byte
	for i := 0; i < len(code); i++ {
		c := code[i]
		if quote != 0 {
			if c == '\\' {
				i++
			} else if c == quote {
				quote = 0
			}
			continue
		}
		switch c {
		case '"', '\'':
			quote = c
		case '<':
			for i++; i < len(code) && code[i] != '>' && code[i] != '\n'; i++ {
			}
		case '{', '(':
			depth++
		case '}', ')':
			depth--
		}
	}
	return depth <= 0 && quote == 0
}

// Splits a line into a command and its arguments
// e.g. ":limit 20" will be split into ":limit" and " 20"
func splitLine(line string) (string, string) {
	var command, arguments string

	line = strings.TrimSpace(line)

	// An empty line/a line consisting of whitespace contains neither command nor arguments
	if len(line) > 0 {
		command = strings.Fields(line)[0]

		// A line containing only a command has no arguments
		if len(line) > len(command) {
			arguments = line[len(command):]
		}
	}

	return command, arguments
}

func terminal(path string) (*liner.State, error) {
	term := liner.NewLiner()

	go func() {
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, os.Kill)
		<-c

		err := persist(term, history)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to properly clean up terminal: %v\n", err)
			os.Exit(1)
		}

		os.Exit(0)
	}()

	f, err := os.Open(path)
	if err != nil {
		return term, err
	}
	defer f.Close()
	_, err = term.ReadHistory(f)
	return term, err
}

func persist(term *liner.State, path string) error {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_APPEND|os.O_CREATE, 0666)
	if err != nil {
		return fmt.Errorf("could not open %q to append history: %v", path, err)
	}
	defer f.Close()
	_, err = term.WriteHistory(f)
	if err != nil {
		return fmt.Errorf("could not write history to %q: %v", path, err)
	}
	return term.Close()
}
