// rulecheck evaluates one document payload against the tablekeep rules
// engine outside the storage layer. It prints every failing check and exits
// non-zero when the document would be rejected, which makes a denied write
// reproducible from a captured payload:
//
//	rulecheck --path users/u1/library/catan --op create item.json
//	rulecheck --path tournaments/t1/gameSessions/s1 --op update \
//	    --actor u2 --parent tournament.json session.json
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	flag "github.com/spf13/pflag"
	"github.com/tablekeep/tablekeep/internal/document"
	"github.com/tablekeep/tablekeep/internal/rules"
)

func main() {
	var (
		pathArg    = flag.String("path", "", "storage path of the document (required)")
		opArg      = flag.String("op", "create", "operation: create, update or delete")
		actorArg   = flag.String("actor", "", "actor identity; empty means unauthenticated")
		priorArg   = flag.String("prior", "", "file with the stored document (updates and deletes)")
		parentArg  = flag.String("parent", "", "file with the parent tournament (game sessions)")
		schemaOnly = flag.Bool("schema-only", false, "skip authorization, report schema checks only")
	)
	flag.Parse()

	if *pathArg == "" {
		fatal("missing --path")
	}
	path, err := document.ParsePath(*pathArg)
	if err != nil {
		fatal(err.Error())
	}

	var incoming document.Document
	if *opArg != "delete" {
		incoming, err = readDocument(path.Kind, flag.Arg(0))
		if err != nil {
			fatal(err.Error())
		}
	}
	var existing document.Document
	if *priorArg != "" {
		existing, err = readDocument(path.Kind, *priorArg)
		if err != nil {
			fatal(err.Error())
		}
	}
	var parent *document.Tournament
	if *parentArg != "" {
		raw, err := os.ReadFile(*parentArg)
		if err != nil {
			fatal(err.Error())
		}
		parent = &document.Tournament{}
		if err := json.Unmarshal(raw, parent); err != nil {
			fatal("parent: " + err.Error())
		}
	}

	var decision rules.Decision
	if *schemaOnly {
		decision = schemaDecision(path, incoming, existing, parent)
	} else {
		decision = rules.Evaluate(rules.Request{
			ActorID:  *actorArg,
			Op:       rules.Operation(*opArg),
			Path:     path,
			Existing: existing,
			Incoming: incoming,
			Parent:   parent,
		})
	}

	for _, v := range decision.Violations {
		fmt.Printf("FAIL  %-40s %-22s %s\n", v.Field, v.Check, v.Detail)
	}
	if decision.Allowed {
		fmt.Printf("PASS  %s %s: all checks passed\n", *opArg, path)
		return
	}
	fmt.Printf("DENY  %s %s: %s\n", *opArg, path, decision.Reason)
	os.Exit(1)
}

func schemaDecision(path document.Path, incoming, existing document.Document, parent *document.Tournament) rules.Decision {
	// Schema validation does not apply to deletes.
	if incoming == nil {
		return rules.Allow()
	}
	var vs []rules.Violation
	switch path.Kind {
	case document.KindLibraryItem:
		var prior *document.LibraryItem
		if existing != nil {
			prior = existing.(*document.LibraryItem)
		}
		vs = rules.ValidateLibraryItem(incoming.(*document.LibraryItem), prior, path)
	case document.KindTournament:
		var prior *document.Tournament
		if existing != nil {
			prior = existing.(*document.Tournament)
		}
		vs = rules.ValidateTournament(incoming.(*document.Tournament), prior, path)
	case document.KindGameSession:
		var prior *document.GameSession
		if existing != nil {
			prior = existing.(*document.GameSession)
		}
		vs = rules.ValidateGameSession(incoming.(*document.GameSession), prior, path, parent)
	}
	if len(vs) > 0 {
		return rules.Denied(vs)
	}
	return rules.Allow()
}

func readDocument(kind document.Kind, file string) (document.Document, error) {
	var raw []byte
	var err error
	if file == "" || file == "-" {
		raw, err = io.ReadAll(os.Stdin)
	} else {
		raw, err = os.ReadFile(file)
	}
	if err != nil {
		return nil, err
	}

	var doc document.Document
	switch kind {
	case document.KindLibraryItem:
		doc = &document.LibraryItem{}
	case document.KindTournament:
		doc = &document.Tournament{}
	case document.KindGameSession:
		doc = &document.GameSession{}
	default:
		return nil, fmt.Errorf("unknown document kind %q", kind)
	}
	if err := json.Unmarshal(raw, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func fatal(msg string) {
	fmt.Fprintln(os.Stderr, "rulecheck:", msg)
	os.Exit(2)
}
