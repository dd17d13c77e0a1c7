// FridgeCook - Ingredient-Based Recipe Search
// Copyright 2026 FridgeCook Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fridgecook/fridgecook

package database

import (
	"context"
	"fmt"

	"github.com/fridgecook/fridgecook/internal/models"
)

// SearchUserRecipes returns every published creator recipe with at least
// one ingredient match, ranked by base-identity coverage then popularity.
// The creator pool is small and always shown first in full, so it is
// ranked exhaustively here and never paginated.
func (db *DB) SearchUserRecipes(ctx context.Context, matchableIDs []int64, locale models.Locale) ([]models.SearchResult, error) {
	if len(matchableIDs) == 0 {
		return nil, nil
	}

	query := fmt.Sprintf(`
		SELECT
			r.id,
			r.title,
			COALESCE(r.category, ''),
			COALESCE(r.image_url, ''),
			COALESCE(r.youtube_video_id, ''),
			r.view_count,
			r.like_count,
			c.id,
			COALESCE(c.nickname, ''),
			COALESCE(c.channel_name, ''),
			COALESCE(c.profile_image, ''),
			COUNT(DISTINCT CASE WHEN ri.ingredient_id IN (%s)
			      THEN COALESCE(i.parent_id, i.id) END) AS match_count,
			COUNT(DISTINCT ri.ingredient_id) AS total_count,
			string_agg(DISTINCT %s, ', ') AS ingredient_names
		FROM user_recipes r
		JOIN creators c ON c.id = r.creator_id
		JOIN user_recipe_ingredients ri ON ri.recipe_id = r.id
		JOIN ingredients i ON i.id = ri.ingredient_id
		WHERE r.status = ?
		GROUP BY r.id, r.title, r.category, r.image_url, r.youtube_video_id,
		         r.view_count, r.like_count, c.id, c.nickname, c.channel_name, c.profile_image
		HAVING COUNT(DISTINCT CASE WHEN ri.ingredient_id IN (%s)
		       THEN COALESCE(i.parent_id, i.id) END) > 0
		ORDER BY match_count DESC, r.view_count DESC, r.id`,
		placeholders(len(matchableIDs)), nameColumn(locale, "i"), placeholders(len(matchableIDs)))

	args := int64Args(matchableIDs)
	args = append(args, string(models.RecipePublished))
	args = append(args, int64Args(matchableIDs)...)

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("creator recipe search failed: %w", err)
	}
	defer rows.Close()

	results := []models.SearchResult{}
	for rows.Next() {
		r := models.SearchResult{Provenance: models.ProvenanceCreator}
		creator := models.Creator{}
		if err := rows.Scan(&r.ID, &r.Name, &r.Category, &r.ImageURL, &r.YouTubeVideoID,
			&r.ViewCount, &r.LikeCount,
			&creator.ID, &creator.Nickname, &creator.ChannelName, &creator.ProfileImage,
			&r.MatchCount, &r.TotalCount, &r.Ingredients); err != nil {
			return nil, fmt.Errorf("creator recipe scan failed: %w", err)
		}
		r.Creator = &creator
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("creator recipe iteration failed: %w", err)
	}

	return results, nil
}
