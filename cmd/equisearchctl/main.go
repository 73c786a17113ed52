// Command equisearchctl is a CLI for the equisearch HTTP API.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	equisearch "github.com/surplusgrid/equisearch/pkg/sdk"
)

func main() {
	app := &cli.App{
		Name:  "equisearchctl",
		Usage: "Manage tenants and equipment inventories, run searches",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "addr",
				Aliases: []string{"a"},
				Usage:   "Base URL of the equisearch API",
				Value:   "http://localhost:8080",
				EnvVars: []string{"EQUISEARCH_ADDR"},
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Usage: "Request timeout",
				Value: 30 * time.Second,
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "register",
				Usage:  "Register a tenant",
				Action: registerCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "id", Usage: "Tenant id", Required: true},
					&cli.StringFlag{Name: "name", Usage: "Tenant display name", Required: true},
					&cli.StringFlag{Name: "industry", Usage: "Tenant industry"},
					&cli.BoolFlag{Name: "no-marketplace", Usage: "Disable marketplace access"},
				},
			},
			{
				Name:   "tenants",
				Usage:  "List registered tenants",
				Action: tenantsCommand,
			},
			{
				Name:      "tenant",
				Usage:     "Show one tenant",
				ArgsUsage: "<tenant-id>",
				Action:    tenantCommand,
			},
			{
				Name:      "search",
				Usage:     "Search a tenant's inventory with marketplace suggestions",
				ArgsUsage: "<query>",
				Action:    searchCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "tenant", Aliases: []string{"t"}, Usage: "Tenant id", Required: true},
				},
			},
			{
				Name:      "search-all",
				Usage:     "Search the internal and partner pools",
				ArgsUsage: "<query>",
				Action:    searchAllCommand,
			},
			{
				Name:      "index",
				Usage:     "Upsert one equipment document from a JSON file",
				ArgsUsage: "<file>",
				Action:    indexCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "tenant", Aliases: []string{"t"}, Usage: "Tenant id", Required: true},
				},
			},
			{
				Name:      "bulk",
				Usage:     "Bulk-load equipment documents from a JSON array file",
				ArgsUsage: "<file>",
				Action:    bulkCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "tenant", Aliases: []string{"t"}, Usage: "Tenant id", Required: true},
				},
			},
			{
				Name:      "delete",
				Usage:     "Delete an equipment document",
				ArgsUsage: "<doc-id>",
				Action:    deleteCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "tenant", Aliases: []string{"t"}, Usage: "Tenant id", Required: true},
				},
			},
			{
				Name:   "health",
				Usage:  "Show service health",
				Action: healthCommand,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newClient(c *cli.Context) (*equisearch.Client, context.Context, context.CancelFunc) {
	client := equisearch.New(c.String("addr"))
	ctx, cancel := context.WithTimeout(context.Background(), c.Duration("timeout"))
	return client, ctx, cancel
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func registerCommand(c *cli.Context) error {
	client, ctx, cancel := newClient(c)
	defer cancel()

	req := equisearch.RegisterTenantRequest{
		ID:       c.String("id"),
		Name:     c.String("name"),
		Industry: c.String("industry"),
	}
	if c.Bool("no-marketplace") {
		access := false
		req.MarketplaceAccess = &access
	}

	tenant, err := client.RegisterTenant(ctx, req)
	if err != nil {
		return fmt.Errorf("register tenant: %w", err)
	}
	return printJSON(tenant)
}

func tenantsCommand(c *cli.Context) error {
	client, ctx, cancel := newClient(c)
	defer cancel()

	tenants, err := client.ListTenants(ctx)
	if err != nil {
		return fmt.Errorf("list tenants: %w", err)
	}
	return printJSON(tenants)
}

func tenantCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("expected exactly one tenant id argument")
	}

	client, ctx, cancel := newClient(c)
	defer cancel()

	tenant, err := client.GetTenant(ctx, c.Args().First())
	if err != nil {
		return fmt.Errorf("get tenant: %w", err)
	}
	return printJSON(tenant)
}

func searchCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("expected exactly one query argument")
	}

	client, ctx, cancel := newClient(c)
	defer cancel()

	resp, err := client.Search(ctx, c.String("tenant"), c.Args().First())
	if err != nil {
		return fmt.Errorf("search: %w", err)
	}
	return printJSON(resp)
}

func searchAllCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("expected exactly one query argument")
	}

	client, ctx, cancel := newClient(c)
	defer cancel()

	resp, err := client.SearchAll(ctx, c.Args().First())
	if err != nil {
		return fmt.Errorf("search: %w", err)
	}
	return printJSON(resp)
}

func indexCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("expected exactly one file argument")
	}

	data, err := os.ReadFile(c.Args().First())
	if err != nil {
		return fmt.Errorf("read document file: %w", err)
	}
	var doc equisearch.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parse document file: %w", err)
	}

	client, ctx, cancel := newClient(c)
	defer cancel()

	indexed, err := client.UpsertEquipment(ctx, c.String("tenant"), doc)
	if err != nil {
		return fmt.Errorf("index document: %w", err)
	}
	return printJSON(indexed)
}

func bulkCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("expected exactly one file argument")
	}

	data, err := os.ReadFile(c.Args().First())
	if err != nil {
		return fmt.Errorf("read documents file: %w", err)
	}
	var docs []equisearch.Document
	if err := json.Unmarshal(data, &docs); err != nil {
		return fmt.Errorf("parse documents file: %w", err)
	}
	if len(docs) == 0 {
		return fmt.Errorf("documents file is empty")
	}

	client, ctx, cancel := newClient(c)
	defer cancel()

	report, err := client.BulkLoad(ctx, c.String("tenant"), docs)
	if err != nil {
		return fmt.Errorf("bulk load: %w", err)
	}
	return printJSON(report)
}

func deleteCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("expected exactly one document id argument")
	}

	client, ctx, cancel := newClient(c)
	defer cancel()

	if err := client.DeleteEquipment(ctx, c.String("tenant"), c.Args().First()); err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	fmt.Fprintln(os.Stderr, "deleted")
	return nil
}

func healthCommand(c *cli.Context) error {
	client, ctx, cancel := newClient(c)
	defer cancel()

	report, err := client.Health(ctx)
	if err != nil {
		return fmt.Errorf("health: %w", err)
	}
	return printJSON(report)
}
