// FridgeCook - Ingredient-Based Recipe Search
// Copyright 2026 FridgeCook Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fridgecook/fridgecook

package database

import (
	"context"
	"fmt"
)

// SeedFixtures loads a small deterministic data set for development and
// tests. Idempotent: existing rows short-circuit the load.
func (db *DB) SeedFixtures(ctx context.Context) error {
	var count int
	if err := db.conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM ingredients").Scan(&count); err != nil {
		return fmt.Errorf("fixture check failed: %w", err)
	}
	if count > 0 {
		return nil
	}

	stmts := []string{
		// Base ingredients with localized names and aliases.
		`INSERT INTO ingredients (id, name, name_en, category, parent_id, is_base, aliases) VALUES
			(1,  '계란',   'egg',      '축산물', NULL, TRUE,  '달걀,egg'),
			(2,  '쌀',     'rice',     '곡류',   NULL, TRUE,  '백미,rice'),
			(3,  '양파',   'onion',    '채소',   NULL, TRUE,  'onion'),
			(4,  '다진 양파', 'diced onion', '채소', 3, FALSE, ''),
			(5,  '적양파', 'red onion', '채소',  3,    FALSE, ''),
			(6,  '돼지고기', 'pork',    '축산물', NULL, TRUE,  'pork'),
			(7,  '삼겹살', 'pork belly', '축산물', 6,  FALSE, ''),
			(8,  '김치',   'kimchi',   '가공식품', NULL, TRUE, 'kimchi'),
			(9,  '설탕',   'sugar',    '조미료', NULL, TRUE,  'sugar'),
			(10, '밀가루', 'flour',    '곡류',   NULL, TRUE,  'flour')`,
		`INSERT INTO dishes (id, name, name_en, category, cuisine, image_url, description) VALUES
			(101, '계란밥',     'egg rice',        '밥/죽/떡', 'korean',  'https://img.example/101.jpg', '간단한 한 끼'),
			(102, '김치찌개',   'kimchi stew',     '찌개',     'korean',  'https://img.example/102.jpg', ''),
			(103, '양파수프',   'onion soup',      '스프',     'western', '',                            ''),
			(104, '팬케이크',   'pancake',         'Dessert',  'dessert', 'https://img.example/104.jpg', ''),
			(105, '돼지고기볶음', 'stir-fried pork', '메인반찬', NULL,     '',                            '')`,
		`INSERT INTO dish_ingredients (dish_id, ingredient_id) VALUES
			(101, 1), (101, 2),
			(102, 8), (102, 7), (102, 3),
			(103, 4), (103, 9),
			(104, 1), (104, 9), (104, 10),
			(105, 6), (105, 3), (105, 9)`,
		`INSERT INTO creators (id, user_id, nickname, channel_name, profile_image) VALUES
			(1, 501, 'cheflee', '이셰프의 부엌', 'https://img.example/c1.jpg'),
			(2, 502, 'homecook', NULL, NULL)`,
		`INSERT INTO user_recipes (id, creator_id, title, category, status, youtube_video_id, view_count, like_count) VALUES
			(201, 1, '초간단 계란볶음밥', '밥/죽/떡', 'published', 'dQw4w9WgXcQ', 1200, 85),
			(202, 1, '비밀 김치찌개',     '찌개',     'published', '',            4500, 300),
			(203, 2, '연습용 레시피',     NULL,       'draft',     '',            0,    0)`,
		`INSERT INTO user_recipe_ingredients (recipe_id, ingredient_id) VALUES
			(201, 1), (201, 2), (201, 3),
			(202, 8), (202, 6),
			(203, 1)`,
	}

	for _, stmt := range stmts {
		if _, err := db.conn.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("fixture load failed: %w", err)
		}
	}
	return nil
}
