package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
)

type handler func(ctx context.Context, args []string) error

type command struct {
	help string
	run  handler
}

func (a *App) commands() map[string]command {
	return map[string]command{
		"create":          {"create a card", a.create},
		"list":            {"list cards", a.list},
		"unlock":          {"show a card value: unlock <n>", a.unlock},
		"delete":          {"delete cards: delete <n,...>", a.delete},
		"clear":           {"delete every card", a.clear},
		"export":          {"export cards as an encrypted bundle: export <n,...>", a.export},
		"import":          {"import a bundle: import <file>", a.importBundle},
		"keys":            {"list keychain entries", a.keys},
		"exportkeys":      {"export keys encrypted: exportkeys [slug,...]", a.exportKeys},
		"exportkeysplain": {"export keys as plain JSON: exportkeysplain [slug,...]", a.exportKeysPlain},
		"importkeys":      {"import an encrypted keychain: importkeys <file>", a.importKeys},
		"importkeyfile":   {"import key files: importkeyfile <file> [file...]", a.importKeyFile},
		"deletekeys":      {"delete keys: deletekeys <slug,...>", a.deleteKeys},
		"clearkeys":       {"delete every key", a.clearKeys},
		"selfcheck":       {"check which private cards can be unlocked", a.selfCheck},
		"links":           {"list produced files", a.links},
		"deletelinks":     {"forget produced files: deletelinks <n,...>", a.deleteLinks},
		"publish":         {"upload a file to the remote drop: publish <file>", a.publish},
		"fetch":           {"download from the remote drop: fetch <key>", a.fetch},
	}
}

func printHelp(cmds map[string]command, w io.Writer) {
	names := make([]string, 0, len(cmds))
	for n := range cmds {
		names = append(names, n)
	}
	sort.Strings(names)

	fmt.Fprintln(w, "Available commands:")
	for _, n := range names {
		fmt.Fprintf(w, "  %-16s %s\n", n, cmds[n].help)
	}
	fmt.Fprintf(w, "  %-16s %s\n", "help", "show this list")
	fmt.Fprintf(w, "  %-16s %s\n", "exit | quit", "leave the program")
}

// runREPL reads commands from in until EOF or exit. Handler errors are
// reported by the handlers themselves and do not stop the loop.
func runREPL(ctx context.Context, cmds map[string]command, in *bufio.Reader, w io.Writer) {
	for {
		fmt.Fprint(w, "chaincode> ")
		line, err := in.ReadString('\n')
		if err != nil && line == "" {
			fmt.Fprintln(w)
			return
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		name, args := strings.ToLower(parts[0]), parts[1:]

		switch name {
		case "help":
			printHelp(cmds, w)
			continue
		case "exit", "quit":
			fmt.Fprintln(w, "Bye!")
			return
		}

		cmd, ok := cmds[name]
		if !ok {
			fmt.Fprintln(w, "Unknown command:", name)
			continue
		}
		_ = cmd.run(ctx, args)
	}
}
