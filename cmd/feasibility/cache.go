package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or clear the API response cache",
	Long: `Manages the local SQLite cache of postcodes.io and renewables.ninja responses.
The cache is used by check and prompt when cache.enabled is set in config.`,
}

var cacheListCmd = &cobra.Command{
	Use:   "list",
	Short: "List cached responses",
	RunE:  runCacheList,
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every cached response",
	RunE:  runCacheClear,
}

func init() {
	cacheCmd.AddCommand(cacheListCmd)
	cacheCmd.AddCommand(cacheClearCmd)
	rootCmd.AddCommand(cacheCmd)
}

func runCacheList(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	db, err := openCache(cfg)
	if err != nil {
		return fmt.Errorf("opening cache: %w", err)
	}
	defer db.Close()

	entries, err := db.List()
	if err != nil {
		return fmt.Errorf("listing cache: %w", err)
	}

	if len(entries) == 0 {
		fmt.Printf("No cached responses in %s\n", getCachePath(cfg))
		return nil
	}

	fmt.Printf("\nCached responses in %s:\n", getCachePath(cfg))
	fmt.Println("----------------------------------------")
	fmt.Printf("%-16s  %-6s  %10s  %s\n", "Cached", "Status", "Size", "URL")
	fmt.Println("----------------------------------------")

	var total uint64
	for _, e := range entries {
		fmt.Printf("%-16s  %-6d  %10s  %s\n",
			humanize.Time(e.CreatedAt), e.StatusCode, humanize.Bytes(uint64(e.Size)), e.URL)
		total += uint64(e.Size)
	}
	fmt.Println("----------------------------------------")
	fmt.Printf("%d responses, %s\n", len(entries), humanize.Bytes(total))

	return nil
}

func runCacheClear(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	db, err := openCache(cfg)
	if err != nil {
		return fmt.Errorf("opening cache: %w", err)
	}
	defer db.Close()

	n, err := db.Clear()
	if err != nil {
		return err
	}

	fmt.Printf("✓ Removed %d cached responses\n", n)
	return nil
}
