// Command aidastat summarises AIDA64 CSV exports in the terminal.
//
//	aidastat [-json] file...
//
// It exits with status 1 if any file cannot be read or ingested.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/JonMunkholm/thermodash/internal/aida"
	"github.com/JonMunkholm/thermodash/internal/core"
)

func main() {
	asJSON := flag.Bool("json", false, "print results as JSON")
	maxSize := flag.Int64("max-size", 20<<20, "maximum file size in bytes")
	flag.Usage = func() {
		fmt.Fprintln(flag.CommandLine.Output(), "usage: aidastat [-json] [-max-size bytes] file...")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	reports := make([]fileReport, 0, flag.NArg())
	for _, path := range flag.Args() {
		reports = append(reports, ingestFile(path, *maxSize))
	}

	var err error
	if *asJSON {
		err = writeJSON(os.Stdout, reports)
	} else {
		err = writeText(os.Stdout, reports)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "aidastat:", err)
		os.Exit(1)
	}

	for _, r := range reports {
		if r.Err != nil {
			os.Exit(1)
		}
	}
}

// fileReport is the outcome for one input file.
type fileReport struct {
	Path   string
	Result *aida.IngestResult
	Err    error
}

// ingestor reports zero usage so repeated runs over a file print the same table.
var ingestor = aida.New()

func ingestFile(path string, maxSize int64) fileReport {
	f, err := os.Open(path)
	if err != nil {
		return fileReport{Path: path, Err: err}
	}
	defer f.Close()

	result, err := ingestor.IngestReader(core.NewLogReader(f, maxSize))
	return fileReport{Path: path, Result: result, Err: err}
}

func writeJSON(w io.Writer, reports []fileReport) error {
	type entry struct {
		File    string             `json:"file"`
		Result  *aida.IngestResult `json:"result,omitempty"`
		Error   string             `json:"error,omitempty"`
		Message string             `json:"message,omitempty"`
		Code    string             `json:"code,omitempty"`
	}
	out := make([]entry, len(reports))
	for i, r := range reports {
		out[i] = entry{File: r.Path, Result: r.Result}
		if ue := core.NewUserError(r.Err); ue != nil {
			out[i].Error = ue.Technical.Error()
			out[i].Message = ue.User.Message
			out[i].Code = ue.User.Code
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
