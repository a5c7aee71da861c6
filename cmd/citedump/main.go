// Debug tool for the offline stages: runs collection, extraction, and
// clustering on a file and dumps what was found, without touching any
// verification source. Useful when tuning recognizer patterns against a new
// corpus of documents.
package main

import (
	"fmt"
	"os"

	"github.com/lexhound/lexhound/internal/cluster"
	"github.com/lexhound/lexhound/internal/collect"
	"github.com/lexhound/lexhound/internal/extract"
	"github.com/lexhound/lexhound/internal/model"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: citedump <textfile>")
		os.Exit(2)
	}

	data, err := os.ReadFile(os.Args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "read: %v\n", err)
		os.Exit(1)
	}
	text := string(data)

	cfg := model.DefaultConfig()
	citations, stats := collect.NewCollector(cfg.Collector).Collect(text)
	extract.New(cfg.Extractor).ExtractAll(text, citations)
	clusters := cluster.New(cfg.Cluster).Cluster(citations)

	fmt.Printf("%d detections, %d kept, %d duplicates removed\n",
		stats.Detections, len(citations), stats.DuplicatesRemoved)

	for _, cl := range clusters {
		name := cl.CaseName
		if name == "" {
			name = "(no name)"
		}
		fmt.Printf("\ncluster %d: %s", cl.ID, name)
		if cl.Year != "" {
			fmt.Printf(" (%s)", cl.Year)
		}
		fmt.Println()
		for _, id := range cl.Members {
			c := citations[id]
			fmt.Printf("  [%5d-%5d] %-30q name=%q year=%s\n",
				c.Start, c.End, c.Text, c.ExtractedCaseName, c.ExtractedYear)
		}
	}
}
