package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"

	"company_research/pkg/core/agent"
	"company_research/pkg/core/pipeline"
	"company_research/pkg/core/prompt"
)

func main() {
	timeout := flag.Duration("timeout", pipeline.DefaultTimeout, "request deadline for the full pipeline")
	asJSON := flag.Bool("json", false, "print the full response as JSON instead of a summary")
	configPath := flag.String("config", "config/models.yaml", "path to the model config")
	flag.Parse()

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Usage: research [flags] <company name>")
		flag.PrintDefaults()
		os.Exit(2)
	}
	companyName := strings.Join(flag.Args(), " ")

	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, assuming environment variables are set.")
	}

	if err := prompt.LoadFromDirectory("resources"); err != nil {
		log.Printf("Warning: no prompt overrides loaded: %v", err)
	}

	var agentCfg agent.Config
	if data, err := os.ReadFile(*configPath); err == nil {
		if err := yaml.Unmarshal(data, &agentCfg); err != nil {
			log.Fatalf("invalid config %s: %v", *configPath, err)
		}
	}
	agentMgr := agent.NewManager(agentCfg)

	orchestrator := pipeline.NewDefaultOrchestrator(agentMgr)
	orchestrator.SetTimeout(*timeout)

	resp, err := orchestrator.Research(context.Background(), companyName)
	if err != nil {
		// The response is still well formed; report the error and print it.
		log.Printf("research finished with error: %v", err)
	}

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(resp); err != nil {
			log.Fatalf("encode response: %v", err)
		}
		return
	}

	fmt.Printf("=== %s (%s) ===\n\n", resp.CompanyName, resp.CompanyInfo.Ticker)
	fmt.Printf("%s\n\n", resp.Overview)

	fmt.Println("Financial metrics:")
	for name, value := range resp.FinancialMetrics {
		fmt.Printf("  %-20s %s\n", name, value)
	}

	fmt.Println("\nPotential risks:")
	for _, risk := range resp.PotentialRisks {
		fmt.Printf("  - %s\n", risk)
	}

	if len(resp.Sources) > 0 {
		fmt.Println("\nSources:")
		for _, src := range resp.Sources {
			fmt.Printf("  - %s\n", src)
		}
	}

	fmt.Printf("\nRequest %s completed at %s\n", resp.RequestID, time.Now().Format(time.RFC3339))
}
