package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"cloud.google.com/go/spanner"
	database "cloud.google.com/go/spanner/admin/database/apiv1"
	"cloud.google.com/go/spanner/admin/database/apiv1/databasepb"
	instance "cloud.google.com/go/spanner/admin/instance/apiv1"
	"cloud.google.com/go/spanner/admin/instance/apiv1/instancepb"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// migrationsTable records which migration files have been applied.
const migrationsTable = "schema_migrations"

type databasePath struct {
	Project  string
	Instance string
	Database string
}

func (p databasePath) instanceName() string {
	return fmt.Sprintf("projects/%s/instances/%s", p.Project, p.Instance)
}

func (p databasePath) String() string {
	return fmt.Sprintf("%s/databases/%s", p.instanceName(), p.Database)
}

// parseDatabasePath splits projects/P/instances/I/databases/D.
func parseDatabasePath(path string) (databasePath, error) {
	parts := strings.Split(path, "/")
	if len(parts) != 6 || parts[0] != "projects" || parts[2] != "instances" || parts[4] != "databases" {
		return databasePath{}, fmt.Errorf("invalid Spanner database path %q", path)
	}
	for _, p := range []string{parts[1], parts[3], parts[5]} {
		if p == "" {
			return databasePath{}, fmt.Errorf("invalid Spanner database path %q", path)
		}
	}
	return databasePath{Project: parts[1], Instance: parts[3], Database: parts[5]}, nil
}

func migrateSpanner(ctx context.Context, target databasePath, dir string) error {
	if err := ensureInstance(ctx, target); err != nil {
		return fmt.Errorf("failed to ensure instance: %w", err)
	}

	adminClient, err := database.NewDatabaseAdminClient(ctx)
	if err != nil {
		return fmt.Errorf("failed to create admin client: %w", err)
	}
	defer adminClient.Close()

	if err := ensureDatabase(ctx, adminClient, target); err != nil {
		return fmt.Errorf("failed to ensure database: %w", err)
	}

	return applyMigrations(ctx, adminClient, target, dir)
}

func ensureInstance(ctx context.Context, target databasePath) error {
	log.Printf("Ensuring instance %s exists...", target.Instance)

	instanceAdmin, err := instance.NewInstanceAdminClient(ctx)
	if err != nil {
		return fmt.Errorf("failed to create instance admin client: %w", err)
	}
	defer instanceAdmin.Close()

	_, err = instanceAdmin.GetInstance(ctx, &instancepb.GetInstanceRequest{Name: target.instanceName()})
	if err == nil {
		return nil
	}
	if status.Code(err) != codes.NotFound {
		return err
	}
	// Only the emulator lets us create instances on demand.
	if os.Getenv("SPANNER_EMULATOR_HOST") == "" {
		return fmt.Errorf("instance %s does not exist", target.instanceName())
	}

	log.Println("Creating instance...")
	op, err := instanceAdmin.CreateInstance(ctx, &instancepb.CreateInstanceRequest{
		Parent:     "projects/" + target.Project,
		InstanceId: target.Instance,
		Instance: &instancepb.Instance{
			Config:      fmt.Sprintf("projects/%s/instanceConfigs/emulator-config", target.Project),
			DisplayName: "Development Instance",
			NodeCount:   1,
		},
	})
	if status.Code(err) == codes.AlreadyExists {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to create instance: %w", err)
	}
	if _, err := op.Wait(ctx); err != nil && status.Code(err) != codes.AlreadyExists {
		return fmt.Errorf("failed to wait for instance creation: %w", err)
	}
	return nil
}

func ensureDatabase(ctx context.Context, adminClient *database.DatabaseAdminClient, target databasePath) error {
	log.Printf("Ensuring database %s exists...", target.Database)

	_, err := adminClient.GetDatabase(ctx, &databasepb.GetDatabaseRequest{Name: target.String()})
	if err == nil {
		return nil
	}
	if status.Code(err) != codes.NotFound {
		return fmt.Errorf("failed to check database: %w", err)
	}

	log.Println("Creating database...")
	op, err := adminClient.CreateDatabase(ctx, &databasepb.CreateDatabaseRequest{
		Parent:          target.instanceName(),
		CreateStatement: fmt.Sprintf("CREATE DATABASE `%s`", target.Database),
	})
	if status.Code(err) == codes.AlreadyExists {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}
	if _, err := op.Wait(ctx); err != nil {
		return fmt.Errorf("failed to wait for database creation: %w", err)
	}
	return nil
}

func applyMigrations(ctx context.Context, adminClient *database.DatabaseAdminClient, target databasePath, dir string) error {
	files, err := filepath.Glob(filepath.Join(dir, "*.sql"))
	if err != nil {
		return fmt.Errorf("failed to list migration files: %w", err)
	}
	if len(files) == 0 {
		log.Println("No migration files found")
		return nil
	}
	sort.Strings(files)

	if err := ensureMigrationsTable(ctx, adminClient, target); err != nil {
		return err
	}

	client, err := spanner.NewClient(ctx, target.String())
	if err != nil {
		return fmt.Errorf("failed to create Spanner client: %w", err)
	}
	defer client.Close()

	applied, err := appliedMigrations(ctx, client)
	if err != nil {
		return err
	}

	for _, file := range files {
		name := filepath.Base(file)
		if applied[name] {
			log.Printf("Skipping %s (already applied)", name)
			continue
		}
		log.Printf("Applying %s...", name)

		content, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("failed to read migration file %s: %w", file, err)
		}

		op, err := adminClient.UpdateDatabaseDdl(ctx, &databasepb.UpdateDatabaseDdlRequest{
			Database:   target.String(),
			Statements: splitDDLStatements(string(content)),
		})
		if err != nil {
			return fmt.Errorf("failed to start DDL update for %s: %w", name, err)
		}
		if err := op.Wait(ctx); err != nil {
			return fmt.Errorf("failed to apply DDL for %s: %w", name, err)
		}

		_, err = client.Apply(ctx, []*spanner.Mutation{
			spanner.Insert(migrationsTable, []string{"name", "applied_at"}, []interface{}{name, spanner.CommitTimestamp}),
		})
		if err != nil {
			return fmt.Errorf("failed to record migration %s: %w", name, err)
		}

		log.Printf("Successfully applied %s", name)
	}

	return nil
}

func ensureMigrationsTable(ctx context.Context, adminClient *database.DatabaseAdminClient, target databasePath) error {
	ddl, err := adminClient.GetDatabaseDdl(ctx, &databasepb.GetDatabaseDdlRequest{Database: target.String()})
	if err != nil {
		return fmt.Errorf("failed to read schema: %w", err)
	}
	if hasTable(ddl.GetStatements(), migrationsTable) {
		return nil
	}

	create := `CREATE TABLE ` + migrationsTable + ` (
  name STRING(256) NOT NULL,
  applied_at TIMESTAMP NOT NULL OPTIONS (allow_commit_timestamp=true),
) PRIMARY KEY (name)`

	op, err := adminClient.UpdateDatabaseDdl(ctx, &databasepb.UpdateDatabaseDdlRequest{
		Database:   target.String(),
		Statements: []string{create},
	})
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", migrationsTable, err)
	}
	return op.Wait(ctx)
}

// hasTable reports whether any CREATE TABLE statement in ddl defines table.
func hasTable(ddl []string, table string) bool {
	for _, stmt := range ddl {
		fields := strings.Fields(stmt)
		if len(fields) >= 3 && strings.EqualFold(fields[0], "CREATE") && strings.EqualFold(fields[1], "TABLE") &&
			strings.Trim(fields[2], "`(") == table {
			return true
		}
	}
	return false
}

func appliedMigrations(ctx context.Context, client *spanner.Client) (map[string]bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	applied := make(map[string]bool)
	iter := client.Single().Read(ctx, migrationsTable, spanner.AllKeys(), []string{"name"})
	err := iter.Do(func(row *spanner.Row) error {
		var name string
		if err := row.Columns(&name); err != nil {
			return err
		}
		applied[name] = true
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read applied migrations: %w", err)
	}
	return applied, nil
}

// splitDDLStatements drops comment lines and splits on semicolons.
func splitDDLStatements(content string) []string {
	var cleaned []string
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "--") {
			continue
		}
		cleaned = append(cleaned, line)
	}

	var result []string
	for _, stmt := range strings.Split(strings.Join(cleaned, "\n"), ";") {
		if stmt = strings.TrimSpace(stmt); stmt != "" {
			result = append(result, stmt)
		}
	}
	return result
}
