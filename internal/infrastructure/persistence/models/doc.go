// Package models contains the GORM persistence models that map to database
// tables. Domain entities stay free of ORM tags; each model converts to and
// from its domain type with ToDomain and XModelFromDomain.
//
// Tables:
//   - users, subscriptions (identity.go)
//   - tags, ingredients, recipes, recipe_tags, recipe_ingredients (recipe.go)
//   - favorites, shopping_carts (collection.go)
package models
