package main

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"

	"company_research/pkg/api/config"
	"company_research/pkg/api/research"
	"company_research/pkg/core/agent"
	"company_research/pkg/core/pipeline"
	"company_research/pkg/core/prompt"
)

func main() {
	// Load environment variables
	godotenv.Load()

	// Load prompt overrides; compiled-in defaults cover any gap.
	resourcesPath := "resources"
	if _, err := os.Stat(resourcesPath); os.IsNotExist(err) {
		exePath, _ := os.Executable()
		resourcesPath = filepath.Join(filepath.Dir(exePath), "resources")
	}
	if err := prompt.LoadFromDirectory(resourcesPath); err != nil {
		fmt.Printf("[WARNING] Failed to load prompt library: %v\n", err)
		fmt.Println("  Falling back to compiled-in prompts")
	}

	// Initialize manager from config
	configData, _ := os.ReadFile("config/models.yaml")
	var agentCfg agent.Config
	yaml.Unmarshal(configData, &agentCfg)
	agentMgr := agent.NewManager(agentCfg)

	orchestrator := pipeline.NewDefaultOrchestrator(agentMgr)

	// Research endpoints
	researchHandler := research.NewHandler(orchestrator)
	http.HandleFunc("/api/research", researchHandler.HandleResearch)
	http.HandleFunc("/api/health", researchHandler.HandleHealth)

	// Config endpoints
	configHandler := config.NewHandler(agentMgr)
	http.HandleFunc("/api/config", configHandler.HandleConfig)
	http.HandleFunc("/api/config/switch", configHandler.HandleSwitch)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	fmt.Printf("API server starting on :%s...\n", port)
	fmt.Println("  - POST /api/research  (add ?format=html for a rendered report)")
	fmt.Println("  - GET  /api/health")
	fmt.Println("  - GET  /api/config")
	fmt.Println("  - POST /api/config/switch")

	if err := http.ListenAndServe(":"+port, nil); err != nil {
		fmt.Printf("[FATAL] Server failed to start: %v\n", err)
		os.Exit(1)
	}
}
