package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"p9e.in/flota/audit"
	"p9e.in/flota/config"
	"p9e.in/flota/fleet"
	"p9e.in/flota/handlers"
	"p9e.in/flota/routes"
)

var (
	Version   = "dev"
	BuildTime = ""
)

func main() {

	versionFlag := flag.Bool("version", false, "Print version info and exit")
	flag.Parse()

	if *versionFlag {
		fmt.Printf("Version:   %s\n", Version)
		fmt.Printf("BuildTime: %s\n", BuildTime)
		os.Exit(0)
	}
	config.Connect()
	port := config.Getenv("PORT", "8080")

	registry := fleet.NewRegistry(fleet.NewGormStores(config.DB), registryOptions())
	handlers.Setup(registry)

	handler := routes.RegisterRoutes()
	handlerWithCORS := enableCORS(handler)
	log.Println("Server starting at port", port)
	log.Fatal(http.ListenAndServe(":"+port, handlerWithCORS))
}

func registryOptions() fleet.RegistryOptions {
	opts := fleet.RegistryOptions{
		AuditRPC:  audit.NewHTTPRPC(os.Getenv("AUDIT_RPC_URL"), os.Getenv("AUDIT_RPC_TOKEN")),
		ReadScope: audit.ParseReadScope(os.Getenv("AUDIT_READ_SCOPE")),
	}
	if raw := os.Getenv("AUDIT_RPC_TIMEOUT"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			log.Fatalf("invalid AUDIT_RPC_TIMEOUT %q: %v", raw, err)
		}
		opts.AuditTimeout = d
	}
	return opts
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
