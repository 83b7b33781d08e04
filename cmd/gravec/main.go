package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/liliang-cn/gravec/pkg/gravec"
	"github.com/liliang-cn/gravec/pkg/search"
)

var (
	dbPath     string
	backend    string
	dimensions int
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "gravec",
	Short: "CLI tool for the gravec hybrid vector + graph database",
	Long:  `A command-line interface for managing nodes, edges and searches in a gravec database file.`,
}

var addCmd = &cobra.Command{
	Use:   "add <text>",
	Short: "Add a node with auto-generated embedding",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		metadataStr, _ := cmd.Flags().GetString("metadata")

		metadata := make(map[string]string)
		if metadataStr != "" {
			if err := json.Unmarshal([]byte(metadataStr), &metadata); err != nil {
				return fmt.Errorf("invalid metadata JSON: %w", err)
			}
		}

		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		node, err := db.AddNode(context.Background(), args[0], metadata)
		if err != nil {
			return fmt.Errorf("failed to add node: %w", err)
		}

		outputJSON, _ := cmd.Flags().GetBool("json")
		if outputJSON {
			data, _ := json.MarshalIndent(node, "", "  ")
			fmt.Println(string(data))
		} else {
			fmt.Printf("Node %d added\n", node.ID)
		}
		return nil
	},
}

var getCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Get a node by ID",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		node, err := db.GetNode(id)
		if err != nil {
			return fmt.Errorf("failed to get node: %w", err)
		}

		outputJSON, _ := cmd.Flags().GetBool("json")
		if outputJSON {
			data, _ := json.MarshalIndent(node, "", "  ")
			fmt.Println(string(data))
		} else {
			fmt.Printf("ID: %d\n", node.ID)
			fmt.Printf("Text: %s\n", node.Text)
			if len(node.Metadata) > 0 {
				fmt.Printf("Metadata: %v\n", node.Metadata)
			}
			fmt.Printf("Embedding: %d dimensions\n", len(node.Embedding))
		}
		return nil
	},
}

var rmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Delete a node and its connected edges",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		if err := db.DeleteNode(context.Background(), id); err != nil {
			return fmt.Errorf("failed to delete node: %w", err)
		}

		fmt.Printf("Node %d deleted\n", id)
		return nil
	},
}

var linkCmd = &cobra.Command{
	Use:   "link <source-id> <target-id>",
	Short: "Create an edge between two nodes",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		source, err := parseID(args[0])
		if err != nil {
			return err
		}
		target, err := parseID(args[1])
		if err != nil {
			return err
		}

		edgeType, _ := cmd.Flags().GetString("type")
		weight, _ := cmd.Flags().GetFloat64("weight")

		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		edge, err := db.AddEdge(context.Background(), source, target, edgeType, weight)
		if err != nil {
			return fmt.Errorf("failed to create edge: %w", err)
		}

		fmt.Printf("Edge %d created: %d -[%s %.2f]-> %d\n",
			edge.ID, edge.Source, edge.Type, edge.Weight, edge.Target)
		return nil
	},
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search nodes by vector similarity",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		topK, _ := cmd.Flags().GetInt("top-k")

		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		results, err := db.VectorSearch(context.Background(), args[0], topK)
		if err != nil {
			return fmt.Errorf("search failed: %w", err)
		}

		printScored(cmd, db, results)
		return nil
	},
}

var traverseCmd = &cobra.Command{
	Use:   "traverse <start-id>",
	Short: "Walk the graph breadth-first from a node",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		startID, err := parseID(args[0])
		if err != nil {
			return err
		}
		depth, _ := cmd.Flags().GetInt("depth")

		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		outputJSON, _ := cmd.Flags().GetBool("json")
		detailed, _ := cmd.Flags().GetBool("detailed")

		if detailed {
			result := db.TraverseWithEdges(startID, depth)
			data, _ := json.MarshalIndent(result, "", "  ")
			fmt.Println(string(data))
			return nil
		}

		order := db.Traverse(startID, depth)
		if outputJSON {
			data, _ := json.MarshalIndent(order, "", "  ")
			fmt.Println(string(data))
		} else {
			fmt.Printf("Visited %d nodes:\n", len(order))
			for i, id := range order {
				fmt.Printf("%d. node %d\n", i+1, id)
			}
		}
		return nil
	},
}

var hybridCmd = &cobra.Command{
	Use:   "hybrid <query>",
	Short: "Search combining vector similarity and graph proximity",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		startID, _ := cmd.Flags().GetInt64("start")
		depth, _ := cmd.Flags().GetInt("depth")
		vectorWeight, _ := cmd.Flags().GetFloat64("vector-weight")
		graphWeight, _ := cmd.Flags().GetFloat64("graph-weight")
		topK, _ := cmd.Flags().GetInt("top-k")

		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		results, err := db.HybridSearch(context.Background(), args[0], search.HybridOptions{
			VectorWeight: vectorWeight,
			GraphWeight:  graphWeight,
			StartID:      startID,
			MaxDepth:     depth,
			TopK:         topK,
		})
		if err != nil {
			return fmt.Errorf("hybrid search failed: %w", err)
		}

		printScored(cmd, db, results)
		return nil
	},
}

var ingestCmd = &cobra.Command{
	Use:   "ingest <file>",
	Short: "Split a text file into chained chunk nodes",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		method, _ := cmd.Flags().GetString("method")

		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		result, err := db.IngestFile(context.Background(), args[0], method)
		if err != nil {
			return fmt.Errorf("ingestion failed: %w", err)
		}

		outputJSON, _ := cmd.Flags().GetBool("json")
		if outputJSON {
			data, _ := json.MarshalIndent(result, "", "  ")
			fmt.Println(string(data))
		} else {
			fmt.Printf("Ingested %s: %d chunks, %d chain edges\n",
				result.FileName, result.TotalChunks, result.EdgeCount)
		}
		return nil
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Display database statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		stats := db.Stats()

		outputJSON, _ := cmd.Flags().GetBool("json")
		if outputJSON {
			data, _ := json.MarshalIndent(stats, "", "  ")
			fmt.Println(string(data))
		} else {
			fmt.Println("Database Statistics:")
			fmt.Printf("  Nodes: %d\n", stats.Nodes)
			fmt.Printf("  Edges: %d\n", stats.Edges)
			fmt.Printf("  Dimensions: %d\n", stats.Dimensions)
			fmt.Printf("  Embedder fitted: %v", stats.EmbedderFitted)
			if stats.EmbedderFitted {
				fmt.Printf(" (%d terms)", stats.VocabSize)
			}
			fmt.Println()
			fmt.Printf("  Backend: %s\n", stats.Backend)
		}
		return nil
	},
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all nodes and edges and reset ID counters",
	RunE: func(cmd *cobra.Command, args []string) error {
		force, _ := cmd.Flags().GetBool("force")

		if !force {
			fmt.Print("Are you sure you want to delete all data? [y/N]: ")
			var response string
			fmt.Scanln(&response)
			if response != "y" && response != "Y" {
				fmt.Println("Cancelled.")
				return nil
			}
		}

		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		if err := db.Clear(context.Background()); err != nil {
			return fmt.Errorf("failed to clear database: %w", err)
		}

		fmt.Println("Database cleared")
		return nil
	},
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q: %w", arg, err)
	}
	return id, nil
}

func printScored(cmd *cobra.Command, db *gravec.DB, results []search.Scored) {
	outputJSON, _ := cmd.Flags().GetBool("json")
	if outputJSON {
		data, _ := json.MarshalIndent(results, "", "  ")
		fmt.Println(string(data))
		return
	}

	fmt.Printf("Found %d results:\n", len(results))
	for i, result := range results {
		fmt.Printf("%d. node %d (score: %.4f)\n", i+1, result.ID, result.Score)
		if verbose {
			if node, err := db.GetNode(result.ID); err == nil {
				fmt.Printf("   Text: %s\n", node.Text)
			}
		}
	}
}

func openDB() (*gravec.DB, error) {
	config := gravec.DefaultConfig(dbPath)
	config.Backend = gravec.Backend(backend)
	config.Dimensions = dimensions

	db, err := gravec.Open(config)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "gravec.json", "Database file path")
	rootCmd.PersistentFlags().StringVar(&backend, "backend", "json", "Snapshot backend (json/sqlite)")
	rootCmd.PersistentFlags().IntVarP(&dimensions, "dimensions", "n", 128, "Embedding dimensions")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")

	addCmd.Flags().String("metadata", "", "Metadata as JSON")
	addCmd.Flags().Bool("json", false, "Output as JSON")

	getCmd.Flags().Bool("json", false, "Output as JSON")

	linkCmd.Flags().String("type", "related_to", "Edge type")
	linkCmd.Flags().Float64("weight", 1.0, "Edge weight")

	searchCmd.Flags().Int("top-k", 5, "Number of results")
	searchCmd.Flags().Bool("json", false, "Output as JSON")

	traverseCmd.Flags().Int("depth", 1, "Maximum traversal depth")
	traverseCmd.Flags().Bool("json", false, "Output as JSON")
	traverseCmd.Flags().Bool("detailed", false, "Include nodes and edges of the visited subgraph")

	hybridCmd.Flags().Int64("start", 0, "Starting node ID for graph proximity")
	hybridCmd.Flags().Int("depth", 2, "Maximum traversal depth")
	hybridCmd.Flags().Float64("vector-weight", 0.7, "Weight of the similarity component")
	hybridCmd.Flags().Float64("graph-weight", 0.3, "Weight of the graph component")
	hybridCmd.Flags().Int("top-k", 5, "Number of results")
	hybridCmd.Flags().Bool("json", false, "Output as JSON")
	hybridCmd.MarkFlagRequired("start")

	ingestCmd.Flags().String("method", "paragraph", "Split method (paragraph/lines)")
	ingestCmd.Flags().Bool("json", false, "Output as JSON")

	statsCmd.Flags().Bool("json", false, "Output as JSON")

	clearCmd.Flags().Bool("force", false, "Skip confirmation prompt")

	rootCmd.AddCommand(
		addCmd,
		getCmd,
		rmCmd,
		linkCmd,
		searchCmd,
		traverseCmd,
		hybridCmd,
		ingestCmd,
		statsCmd,
		clearCmd,
	)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
