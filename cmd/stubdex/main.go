package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"stubdex/internal/builder"
	"stubdex/internal/config"
	"stubdex/internal/crawler"
	"stubdex/internal/name"
	"stubdex/internal/storage"
	"stubdex/internal/stub"
	"stubdex/internal/stubindex"

	"github.com/spf13/cobra"
)

var (
	rootCmd = &cobra.Command{
		Use:   "stubdex",
		Short: "Kotlin declaration stub indexer",
	}
	dbPath string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "stubdex.db", "Path to the symbol index database (SQLite)")

	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(lookupCmd)
	rootCmd.AddCommand(dumpCmd)
}

// initStore initializes the SQLite store, honoring config overrides.
func initStore() (*storage.Store, error) {
	if cfg, err := config.LoadConfig("stubdex.yaml"); err == nil && !rootCmd.PersistentFlags().Changed("db") {
		dbPath = cfg.Index.Database
	}
	return storage.NewStore(dbPath)
}

var scanCmd = &cobra.Command{
	Use:   "scan [path]",
	Short: "Scan a project and rebuild its symbol indices",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		// The positional path wins over the configured project root.
		root := "."
		var ignore []string
		if cfg, err := config.LoadConfig("stubdex.yaml"); err == nil {
			root = cfg.Project.Root
			ignore = cfg.Project.Ignore
		}
		if len(args) > 0 {
			root = args[0]
		}

		fmt.Printf("📂 Scanning directory: %s\n", root)

		store, err := initStore()
		if err != nil {
			log.Fatalf("Failed to initialize database: %v", err)
		}
		defer store.Close()

		start := time.Now()
		files, occurrences, err := runScan(store, root, ignore)
		if err != nil {
			log.Fatalf("Scan failed: %v", err)
		}

		fmt.Printf("✅ Indexed %d files (%d occurrences) in %v.\n", files, occurrences, time.Since(start))
		fmt.Printf("🎉 Scan complete! Database: %s\n", dbPath)
	},
}

// runScan indexes every Kotlin file under root into the store, using
// the configured ignore list when one is given.
func runScan(store *storage.Store, root string, ignore []string) (files, occurrences int, err error) {
	cr := crawler.NewCrawler(builder.NewBuilder())
	if len(ignore) > 0 {
		cr.SetIgnored(ignore)
	}
	service := &stubindex.Service{}
	ctx := context.Background()

	var storeErr error
	err = cr.ScanProject(root, func(path string, fileStub *stub.FileStub) {
		if storeErr != nil {
			return
		}
		sink := storage.NewFileSink(path)
		service.IndexTree(fileStub, sink)
		if e := store.ReplaceFile(ctx, path, fileStub, sink); e != nil {
			storeErr = fmt.Errorf("failed to store %s: %w", path, e)
			return
		}
		files++
		occurrences += sink.Len()
	})
	if err == nil {
		err = storeErr
	}
	return files, occurrences, err
}

var lookupCmd = &cobra.Command{
	Use:   "lookup <category> <key>",
	Short: "List the files containing a key in one index category",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		category := stubindex.IndexKey(args[0])
		known := false
		for _, k := range stubindex.AllKeys {
			if k == category {
				known = true
				break
			}
		}
		if !known {
			log.Fatalf("Unknown index category %q. Known categories:\n  %s", args[0], joinKeys())
		}

		store, err := initStore()
		if err != nil {
			log.Fatalf("Failed to initialize database: %v", err)
		}
		defer store.Close()

		files, err := store.FilesWithKey(context.Background(), category, args[1])
		if err != nil {
			log.Fatalf("Lookup failed: %v", err)
		}

		if len(files) == 0 {
			fmt.Println("No matches.")
			return
		}
		for _, f := range files {
			fmt.Println(f)
		}
	},
}

var dumpCmd = &cobra.Command{
	Use:   "dump <file.kt>",
	Short: "Parse one file and print its stub tree",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		fileStub, err := builder.NewBuilder().BuildFile(args[0])
		if err != nil {
			log.Fatalf("Failed to build stub tree: %v", err)
		}
		printStub(fileStub, 0)
	},
}

func printStub(s stub.Stub, depth int) {
	indent := strings.Repeat("  ", depth)
	switch n := s.(type) {
	case *stub.FileStub:
		fmt.Printf("%sfile package=%q script=%v facade=%s part=%s\n",
			indent, n.PackageFqName.String(), n.Script, orNone(n.FacadeSimpleName), orNone(n.PartSimpleName))
	case *stub.ClassOrObjectStub:
		fmt.Printf("%sclass_or_object name=%q fq=%s topLevel=%v supers=%v\n",
			indent, n.Name, fqOrNone(n.FqName), n.TopLevel, n.SuperNames)
	case *stub.FunctionStub:
		fmt.Printf("%sfunction name=%q fq=%s topLevel=%v returns=%q receiver=%v\n",
			indent, n.Name, fqOrNone(n.FqName), n.TopLevel, n.ReturnTypeRef, n.HasReceiver)
	case *stub.PropertyStub:
		fmt.Printf("%sproperty name=%q fq=%s topLevel=%v returns=%q receiver=%v\n",
			indent, n.Name, fqOrNone(n.FqName), n.TopLevel, n.ReturnTypeRef, n.HasReceiver)
	case *stub.AnnotationEntryStub:
		fmt.Printf("%sannotation shortName=%q\n", indent, n.ShortName)
	case *stub.ImportDirectiveStub:
		fmt.Printf("%simport fq=%s alias=%s\n", indent, fqOrNone(n.ImportedFqName), orNone(n.AliasName))
	}
	for _, c := range s.Children() {
		printStub(c, depth+1)
	}
}

func fqOrNone(f *name.FqName) string {
	if f == nil {
		return "<none>"
	}
	return f.String()
}

func orNone(s *string) string {
	if s == nil {
		return "<none>"
	}
	return *s
}

func joinKeys() string {
	parts := make([]string, len(stubindex.AllKeys))
	for i, k := range stubindex.AllKeys {
		parts[i] = string(k)
	}
	return strings.Join(parts, "\n  ")
}
