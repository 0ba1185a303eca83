package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Stephen-Garner/UniLexApp2-sub001/internal/excel"
)

var (
	importFile     string
	importSheet    string
	importStartRow int
	importTopic    string
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import words from an XLSX or CSV file",
	Long: `Import words into the word bank from a spreadsheet. The expected
layout is term, translation, topic, difficulty, notes in columns A-E with
a header row. Re-importing a file updates existing words in place.`,
	Run: func(cmd *cobra.Command, args []string) {
		store, err := openStore()
		if err != nil {
			fmt.Println("❌ Database error:", err)
			return
		}
		defer store.Close()

		cfg := excel.DefaultImportConfig()
		cfg.FilePath = importFile
		if importSheet != "" {
			cfg.SheetName = importSheet
		}
		if importStartRow > 0 {
			cfg.StartRow = importStartRow
		}
		if importTopic != "" {
			cfg.DefaultTopic = importTopic
		}

		result, err := excel.ImportWords(store, cfg)
		if err != nil {
			fmt.Println("❌ Import failed:", err)
			return
		}

		fmt.Printf("✅ Imported %d rows: %d created, %d updated, %d skipped\n",
			result.TotalProcessed, result.Created, result.Updated, result.Skipped)
		for _, e := range result.Errors {
			fmt.Println("⚠️", e)
		}
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
	importCmd.Flags().StringVarP(&importFile, "file", "f", "", "Spreadsheet to import (required)")
	importCmd.Flags().StringVar(&importSheet, "sheet", "", "Sheet name, XLSX only")
	importCmd.Flags().IntVar(&importStartRow, "start-row", 0, "1-based first data row")
	importCmd.Flags().StringVar(&importTopic, "topic", "", "Topic for rows that don't carry one")
	importCmd.MarkFlagRequired("file")
}
