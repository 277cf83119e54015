package shop

import (
	"context"
	"fmt"

	"ShopBot/bot/chat"
	"ShopBot/bot/chat/catalog"
)

// Prompts after a gallery or card carry no text of their own; sinks that
// cannot send an empty message fall back to a generic one.
const (
	textProducts    = "Here are our products"
	textCollections = "Here are %s collections"
	textAddedToCart = "%s has been added to cart."
)

// selection records the label chosen at the previous prompt under key.
func selection(sc *chat.StepContext, key string) (string, error) {
	label, ok := sc.Result.Choice()
	if !ok {
		return "", fmt.Errorf("expected a selection for %s, got %s", key, sc.Result.Kind)
	}
	sc.State.Set(key, label)
	return label, nil
}

// CategoryStep offers the top-level categories.
type CategoryStep struct {
	catalog Catalog
}

func (s *CategoryStep) ID() chat.StepID { return StepCategory }

func (s *CategoryStep) Run(_ context.Context, sc *chat.StepContext) (chat.DialogOutcome, error) {
	return sc.Prompt(textProducts, s.catalog.Root()), nil
}

// SubcategoryStep records the category and shows its collections.
type SubcategoryStep struct {
	catalog Catalog
}

func (s *SubcategoryStep) ID() chat.StepID { return StepSubcategory }

func (s *SubcategoryStep) Run(_ context.Context, sc *chat.StepContext) (chat.DialogOutcome, error) {
	category, err := selection(sc, KeyCategory)
	if err != nil {
		return chat.DialogOutcome{}, err
	}

	options, err := s.catalog.Lookup(catalog.LevelSubcategory, category)
	if err != nil {
		return chat.DialogOutcome{}, err
	}

	sc.SendText(fmt.Sprintf(textCollections, category))
	sc.SendGallery(category, options.Gallery())
	return sc.Prompt("", options), nil
}

// ItemStep records the subcategory and shows its products, announced under
// the top-level category.
type ItemStep struct {
	catalog Catalog
}

func (s *ItemStep) ID() chat.StepID { return StepItem }

func (s *ItemStep) Run(_ context.Context, sc *chat.StepContext) (chat.DialogOutcome, error) {
	category2, err := selection(sc, KeyCategory2)
	if err != nil {
		return chat.DialogOutcome{}, err
	}

	options, err := s.catalog.Lookup(catalog.LevelItem, category2)
	if err != nil {
		return chat.DialogOutcome{}, err
	}

	sc.SendText(fmt.Sprintf(textCollections, sc.State.GetString(KeyCategory)))
	sc.SendGallery(category2, options.Gallery())
	return sc.Prompt("", options), nil
}

// DetailStep records the item, shows its card and offers the actions.
type DetailStep struct {
	catalog Catalog
}

func (s *DetailStep) ID() chat.StepID { return StepDetail }

func (s *DetailStep) Run(_ context.Context, sc *chat.StepContext) (chat.DialogOutcome, error) {
	item, err := selection(sc, KeyItemCategory)
	if err != nil {
		return chat.DialogOutcome{}, err
	}

	card, err := s.catalog.Detail(item)
	if err != nil {
		return chat.DialogOutcome{}, err
	}

	sc.SendCard(chat.Card{
		Title:    card.Title,
		Text:     card.Description,
		ImageURL: card.ImageURL,
	})
	return sc.Prompt("", s.catalog.Actions()), nil
}

// ConfirmStep confirms the cart addition whichever action was chosen.
type ConfirmStep struct {
	catalog Catalog
}

func (s *ConfirmStep) ID() chat.StepID { return StepConfirm }

func (s *ConfirmStep) Run(_ context.Context, sc *chat.StepContext) (chat.DialogOutcome, error) {
	if action, ok := sc.Result.Choice(); ok {
		sc.State.Set(KeyAction, action)
	}

	card, err := s.catalog.Detail(sc.State.GetString(KeyItemCategory))
	if err != nil {
		return chat.DialogOutcome{}, err
	}

	sc.SendText(fmt.Sprintf(textAddedToCart, card.Title))
	return sc.End(), nil
}
