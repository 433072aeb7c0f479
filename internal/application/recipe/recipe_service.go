package recipe

import (
	"context"
	"errors"
	"fmt"

	appshared "github.com/foodgram/backend/internal/application/shared"
	"github.com/foodgram/backend/internal/domain/identity"
	"github.com/foodgram/backend/internal/domain/recipe"
	"github.com/foodgram/backend/internal/domain/shared"
	"github.com/foodgram/backend/internal/infrastructure/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	errRecipeNotFound     = shared.NewDomainError("NOT_FOUND", "Recipe not found")
	errTagNotFound        = shared.NewDomainError("NOT_FOUND", "Tag not found")
	errIngredientNotFound = shared.NewDomainError("NOT_FOUND", "Ingredient not found")
)

// Repositories groups the stores the recipe service reads and writes
type Repositories struct {
	Recipes       recipe.RecipeRepository
	Tags          recipe.TagRepository
	Ingredients   recipe.IngredientRepository
	Favorites     recipe.FavoriteRepository
	Carts         recipe.ShoppingCartRepository
	Users         identity.UserRepository
	Subscriptions identity.SubscriptionRepository
}

// RecipeService handles tags, ingredients, recipes, favorites and the
// shopping cart
type RecipeService struct {
	repos  Repositories
	images ImageStorage
	newID  func() uuid.UUID
}

// NewRecipeService creates a new recipe service
func NewRecipeService(repos Repositories, images ImageStorage) *RecipeService {
	return &RecipeService{
		repos:  repos,
		images: images,
		newID:  uuid.New,
	}
}

// ListTags returns every tag
func (s *RecipeService) ListTags(ctx context.Context) ([]TagDTO, error) {
	tags, err := s.repos.Tags.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}
	out := make([]TagDTO, len(tags))
	for i, t := range tags {
		out[i] = toTagDTO(t)
	}
	return out, nil
}

// GetTag returns one tag
func (s *RecipeService) GetTag(ctx context.Context, id uuid.UUID) (*TagDTO, error) {
	tag, err := s.repos.Tags.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, errTagNotFound
		}
		return nil, fmt.Errorf("failed to load tag: %w", err)
	}
	dto := toTagDTO(*tag)
	return &dto, nil
}

// ListIngredients returns ingredients whose name starts with prefix,
// ignoring case; an empty prefix returns all of them
func (s *RecipeService) ListIngredients(ctx context.Context, prefix string) ([]IngredientDTO, error) {
	ingredients, err := s.repos.Ingredients.FindByNamePrefix(ctx, prefix)
	if err != nil {
		return nil, fmt.Errorf("failed to list ingredients: %w", err)
	}
	out := make([]IngredientDTO, len(ingredients))
	for i, ing := range ingredients {
		out[i] = toIngredientDTO(ing)
	}
	return out, nil
}

// GetIngredient returns one ingredient
func (s *RecipeService) GetIngredient(ctx context.Context, id uuid.UUID) (*IngredientDTO, error) {
	ing, err := s.repos.Ingredients.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, errIngredientNotFound
		}
		return nil, fmt.Errorf("failed to load ingredient: %w", err)
	}
	dto := toIngredientDTO(*ing)
	return &dto, nil
}

// Create publishes a recipe, storing its image first
func (s *RecipeService) Create(ctx context.Context, input CreateRecipeInput) (*RecipeDTO, error) {
	img, err := DecodeImage(input.Image)
	if err != nil {
		return nil, err
	}
	key := s.imageKey(img)

	rec, err := recipe.NewRecipe(input.AuthorID, input.Name, input.Text, key, input.CookingTime, input.TagIDs, input.Ingredients)
	if err != nil {
		return nil, err
	}
	if err := s.resolve(ctx, rec); err != nil {
		return nil, err
	}

	if err := s.images.Upload(ctx, key, img.Data, img.ContentType); err != nil {
		return nil, fmt.Errorf("failed to store recipe image: %w", err)
	}
	if err := s.repos.Recipes.Create(ctx, rec); err != nil {
		s.discardImage(ctx, key)
		return nil, fmt.Errorf("failed to create recipe: %w", err)
	}

	logger.L(ctx).Info("Recipe created",
		zap.String("recipe_id", rec.ID.String()),
		zap.String("author_id", rec.AuthorID.String()))

	return s.toRecipeDTO(ctx, input.AuthorID, rec, false, false)
}

// Update replaces the content of a recipe. Only its author may update it.
func (s *RecipeService) Update(ctx context.Context, input UpdateRecipeInput) (*RecipeDTO, error) {
	rec, err := s.findRecipe(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if err := rec.CheckAuthor(input.EditorID); err != nil {
		return nil, err
	}

	var img *DecodedImage
	newKey := ""
	if input.Image != "" {
		if img, err = DecodeImage(input.Image); err != nil {
			return nil, err
		}
		newKey = s.imageKey(img)
	}

	oldKey := rec.Image
	if err := rec.Update(input.EditorID, input.Name, input.Text, newKey, input.CookingTime, input.TagIDs, input.Ingredients); err != nil {
		return nil, err
	}
	if err := s.resolve(ctx, rec); err != nil {
		return nil, err
	}

	if img != nil {
		if err := s.images.Upload(ctx, newKey, img.Data, img.ContentType); err != nil {
			return nil, fmt.Errorf("failed to store recipe image: %w", err)
		}
	}
	if err := s.repos.Recipes.Update(ctx, rec); err != nil {
		if img != nil {
			s.discardImage(ctx, newKey)
		}
		if errors.Is(err, shared.ErrNotFound) {
			return nil, errRecipeNotFound
		}
		return nil, fmt.Errorf("failed to update recipe: %w", err)
	}
	if img != nil {
		s.discardImage(ctx, oldKey)
	}

	flags, err := s.flags(ctx, input.EditorID, []uuid.UUID{rec.ID})
	if err != nil {
		return nil, err
	}
	return s.toRecipeDTO(ctx, input.EditorID, rec, flags.favorited[rec.ID], flags.inCart[rec.ID])
}

// Delete removes a recipe. Only its author may delete it.
func (s *RecipeService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	rec, err := s.findRecipe(ctx, id)
	if err != nil {
		return err
	}
	if err := rec.CheckAuthor(userID); err != nil {
		return err
	}
	if err := s.repos.Recipes.Delete(ctx, id); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return errRecipeNotFound
		}
		return fmt.Errorf("failed to delete recipe: %w", err)
	}
	s.discardImage(ctx, rec.Image)

	logger.L(ctx).Info("Recipe deleted", zap.String("recipe_id", id.String()))
	return nil
}

// Get returns a recipe as seen by viewerID; uuid.Nil is an anonymous viewer
func (s *RecipeService) Get(ctx context.Context, viewerID, id uuid.UUID) (*RecipeDTO, error) {
	rec, err := s.findRecipe(ctx, id)
	if err != nil {
		return nil, err
	}
	flags, err := s.flags(ctx, viewerID, []uuid.UUID{rec.ID})
	if err != nil {
		return nil, err
	}
	return s.toRecipeDTO(ctx, viewerID, rec, flags.favorited[rec.ID], flags.inCart[rec.ID])
}

// List returns a page of recipes, newest first
func (s *RecipeService) List(ctx context.Context, input ListRecipesInput) (shared.Paginated[RecipeDTO], error) {
	filter := recipe.RecipeFilter{
		Filter:   input.Filter.Normalize(),
		AuthorID: input.AuthorID,
		TagSlugs: input.TagSlugs,
	}
	if input.Favorited || input.InCart {
		if input.ViewerID == uuid.Nil {
			return shared.NewPaginated([]RecipeDTO{}, 0, filter.Page, filter.PageSize), nil
		}
		viewer := input.ViewerID
		if input.Favorited {
			filter.FavoritedBy = &viewer
		}
		if input.InCart {
			filter.InCartOf = &viewer
		}
	}

	recipes, total, err := s.repos.Recipes.FindAll(ctx, filter)
	if err != nil {
		return shared.Paginated[RecipeDTO]{}, fmt.Errorf("failed to list recipes: %w", err)
	}

	ids := make([]uuid.UUID, len(recipes))
	for i, r := range recipes {
		ids[i] = r.ID
	}
	flags, err := s.flags(ctx, input.ViewerID, ids)
	if err != nil {
		return shared.Paginated[RecipeDTO]{}, err
	}

	authors := make(map[uuid.UUID]appshared.UserDTO)
	items := make([]RecipeDTO, 0, len(recipes))
	for _, r := range recipes {
		dto, err := s.buildRecipeDTO(ctx, input.ViewerID, r, flags.favorited[r.ID], flags.inCart[r.ID], authors)
		if err != nil {
			return shared.Paginated[RecipeDTO]{}, err
		}
		items = append(items, *dto)
	}
	return shared.NewPaginated(items, total, filter.Page, filter.PageSize), nil
}

func (s *RecipeService) findRecipe(ctx context.Context, id uuid.UUID) (*recipe.Recipe, error) {
	rec, err := s.repos.Recipes.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, errRecipeNotFound
		}
		return nil, fmt.Errorf("failed to load recipe: %w", err)
	}
	return rec, nil
}

// resolve attaches tag and ingredient details to a new or edited recipe
func (s *RecipeService) resolve(ctx context.Context, rec *recipe.Recipe) error {
	tags, err := s.repos.Tags.FindByIDs(ctx, rec.TagIDs())
	if err != nil {
		return fmt.Errorf("failed to load tags: %w", err)
	}
	ingredients, err := s.repos.Ingredients.FindByIDs(ctx, rec.IngredientIDs())
	if err != nil {
		return fmt.Errorf("failed to load ingredients: %w", err)
	}
	return rec.Resolve(tags, ingredients)
}

func (s *RecipeService) imageKey(img *DecodedImage) string {
	return fmt.Sprintf("recipes/%s.%s", s.newID(), img.Ext)
}

// discardImage removes an image that is no longer referenced. Failures
// leave an orphaned object and are only logged.
func (s *RecipeService) discardImage(ctx context.Context, key string) {
	if key == "" {
		return
	}
	if err := s.images.Delete(ctx, key); err != nil {
		logger.L(ctx).Warn("Failed to delete recipe image",
			zap.String("key", key),
			zap.Error(err))
	}
}

type viewerFlags struct {
	favorited map[uuid.UUID]bool
	inCart    map[uuid.UUID]bool
}

func (s *RecipeService) flags(ctx context.Context, viewerID uuid.UUID, recipeIDs []uuid.UUID) (viewerFlags, error) {
	if viewerID == uuid.Nil {
		return viewerFlags{}, nil
	}
	favorited, err := s.repos.Favorites.Contains(ctx, viewerID, recipeIDs)
	if err != nil {
		return viewerFlags{}, fmt.Errorf("failed to check favorites: %w", err)
	}
	inCart, err := s.repos.Carts.Contains(ctx, viewerID, recipeIDs)
	if err != nil {
		return viewerFlags{}, fmt.Errorf("failed to check shopping cart: %w", err)
	}
	return viewerFlags{favorited: favorited, inCart: inCart}, nil
}

func (s *RecipeService) toRecipeDTO(ctx context.Context, viewerID uuid.UUID, r *recipe.Recipe, favorited, inCart bool) (*RecipeDTO, error) {
	return s.buildRecipeDTO(ctx, viewerID, r, favorited, inCart, make(map[uuid.UUID]appshared.UserDTO))
}

// buildRecipeDTO maps a recipe; authors caches author cards across a page
func (s *RecipeService) buildRecipeDTO(ctx context.Context, viewerID uuid.UUID, r *recipe.Recipe, favorited, inCart bool, authors map[uuid.UUID]appshared.UserDTO) (*RecipeDTO, error) {
	author, ok := authors[r.AuthorID]
	if !ok {
		u, err := s.repos.Users.FindByID(ctx, r.AuthorID)
		if err != nil {
			return nil, fmt.Errorf("failed to load author of recipe %s: %w", r.ID, err)
		}
		subscribed := false
		if viewerID != uuid.Nil && viewerID != r.AuthorID {
			if subscribed, err = s.repos.Subscriptions.Exists(ctx, viewerID, r.AuthorID); err != nil {
				return nil, fmt.Errorf("failed to check subscription: %w", err)
			}
		}
		author = appshared.NewUserDTO(u, subscribed)
		authors[r.AuthorID] = author
	}

	url, err := s.images.DownloadURL(ctx, r.Image)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve image of recipe %s: %w", r.ID, err)
	}

	tags := make([]TagDTO, len(r.Tags))
	for i, t := range r.Tags {
		tags[i] = toTagDTO(t)
	}
	lines := make([]RecipeIngredientDTO, len(r.Ingredients))
	for i, line := range r.Ingredients {
		lines[i] = RecipeIngredientDTO{
			ID:              line.IngredientID,
			Name:            line.Name,
			MeasurementUnit: line.MeasurementUnit,
			Amount:          line.Amount,
		}
	}

	return &RecipeDTO{
		ID:               r.ID,
		Tags:             tags,
		Author:           author,
		Ingredients:      lines,
		IsFavorited:      favorited,
		IsInShoppingCart: inCart,
		Name:             r.Name,
		Image:            url,
		Text:             r.Text,
		CookingTime:      r.CookingTime,
		PubDate:          r.PubDate,
	}, nil
}
