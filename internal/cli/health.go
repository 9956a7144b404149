package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lakeshed/lakeshed/internal/clients"
)

var healthCmd = &cobra.Command{
	Use:   "health-check",
	Short: "Check the health of all services",
	Long: `Probe Trino, Postgres, Redis, and MinIO and report which of them
answer. The command exits non-zero unless every service is healthy.`,
	RunE: runHealthCheck,
}

func runHealthCheck(cmd *cobra.Command, args []string) error {
	mgr := clients.NewManager(cfg)
	defer mgr.CloseAll()

	results := mgr.HealthCheck(cmd.Context())

	endpoints := map[string]string{
		"trino":    fmt.Sprintf("%s:%d", cfg.TrinoHost, cfg.TrinoPort),
		"postgres": fmt.Sprintf("%s:%d", cfg.PostgresHost, cfg.PostgresPort),
		"redis":    cfg.RedisAddr(),
		"minio":    cfg.MinIOEndpoint,
	}

	cmd.Println("Service health:")
	cmd.Println()
	healthy := 0
	for _, name := range clients.ServiceNames {
		status := "unhealthy"
		if results[name] {
			status = "healthy"
			healthy++
		}
		cmd.Printf("  %-10s %-10s %s\n", name, status, endpoints[name])
	}
	cmd.Println()

	total := len(clients.ServiceNames)
	if healthy != total {
		return fmt.Errorf("%d/%d services are healthy", healthy, total)
	}

	cmd.Printf("All services are healthy (%d/%d)\n", healthy, total)
	return nil
}
