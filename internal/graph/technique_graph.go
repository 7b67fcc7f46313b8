package graph

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/yarnwise/yarnwise-backend/internal/logger"
	"github.com/yarnwise/yarnwise-backend/internal/transform"
	"github.com/yarnwise/yarnwise-backend/internal/types"
)

// SyncTechnique mirrors a technique row into the graph: its node plus
// RELATED_TO and REQUIRES edges from the row's id lists. A nil client
// makes this a no-op.
func SyncTechnique(ctx context.Context, client *Client, log *logger.Logger, row *types.Technique) error {
	if client == nil || client.Driver == nil {
		return nil
	}
	if row == nil || row.ID == uuid.Nil {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}

	now := time.Now().UTC().Format(time.RFC3339Nano)
	related := make([]string, 0)
	for _, id := range transform.UUIDList(row.RelatedIDs) {
		related = append(related, id.String())
	}
	prereqs := make([]string, 0)
	for _, id := range transform.UUIDList(row.PrerequisiteIDs) {
		prereqs = append(prereqs, id.String())
	}

	session := client.Driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeWrite,
		DatabaseName: client.Database,
	})
	defer session.Close(ctx)

	// Best-effort schema init.
	if res, err := session.Run(ctx,
		`CREATE CONSTRAINT technique_id_unique IF NOT EXISTS FOR (t:Technique) REQUIRE t.id IS UNIQUE`, nil); err != nil {
		if log != nil {
			log.Warn("neo4j schema init failed (continuing)", "error", err)
		}
	} else {
		_, _ = res.Consume(ctx)
	}

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		if res, err := tx.Run(ctx, `
MERGE (t:Technique {id: $id})
SET t.name = $name,
    t.category = $category,
    t.difficulty = $difficulty,
    t.synced_at = $synced_at
WITH t
OPTIONAL MATCH (t)-[old:RELATED_TO|REQUIRES]->()
DELETE old
`, map[string]any{
			"id":         row.ID.String(),
			"name":       row.Name,
			"category":   row.Category,
			"difficulty": row.Difficulty,
			"synced_at":  now,
		}); err != nil {
			return nil, err
		} else if _, err := res.Consume(ctx); err != nil {
			return nil, err
		}

		if res, err := tx.Run(ctx, `
MATCH (t:Technique {id: $id})
UNWIND $related AS rid
MERGE (r:Technique {id: rid})
MERGE (t)-[e:RELATED_TO]->(r)
SET e.synced_at = $synced_at
`, map[string]any{
			"id":        row.ID.String(),
			"related":   related,
			"synced_at": now,
		}); err != nil {
			return nil, err
		} else if _, err := res.Consume(ctx); err != nil {
			return nil, err
		}

		if res, err := tx.Run(ctx, `
MATCH (t:Technique {id: $id})
UNWIND $prereqs AS pid
MERGE (p:Technique {id: pid})
MERGE (t)-[e:REQUIRES]->(p)
SET e.synced_at = $synced_at
`, map[string]any{
			"id":        row.ID.String(),
			"prereqs":   prereqs,
			"synced_at": now,
		}); err != nil {
			return nil, err
		} else if _, err := res.Consume(ctx); err != nil {
			return nil, err
		}
		return nil, nil
	})
	return err
}

// RelatedTechniques walks RELATED_TO edges up to two hops out and returns
// distinct neighbor ids, nearest first. A nil client returns nothing.
func RelatedTechniques(ctx context.Context, client *Client, techniqueID uuid.UUID, limit int) ([]uuid.UUID, error) {
	if client == nil || client.Driver == nil {
		return nil, nil
	}
	if techniqueID == uuid.Nil {
		return nil, nil
	}
	if limit <= 0 {
		limit = 10
	}
	if ctx == nil {
		ctx = context.Background()
	}

	session := client.Driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeRead,
		DatabaseName: client.Database,
	})
	defer session.Close(ctx)

	rows, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, `
MATCH (t:Technique {id: $id})-[:RELATED_TO*1..2]->(r:Technique)
WHERE r.id <> $id
WITH DISTINCT r
RETURN r.id AS id
LIMIT $limit
`, map[string]any{
			"id":    techniqueID.String(),
			"limit": limit,
		})
		if err != nil {
			return nil, err
		}
		var ids []uuid.UUID
		for res.Next(ctx) {
			raw, ok := res.Record().Get("id")
			if !ok {
				continue
			}
			str, ok := raw.(string)
			if !ok {
				continue
			}
			if id, err := uuid.Parse(str); err == nil {
				ids = append(ids, id)
			}
		}
		return ids, res.Err()
	})
	if err != nil {
		return nil, err
	}
	ids, _ := rows.([]uuid.UUID)
	return ids, nil
}
