package shop

import (
	"ShopBot/bot/chat"
	"ShopBot/bot/chat/catalog"
	"ShopBot/entity"
)

const (
	WorkflowID chat.WorkflowID = "shop"
)

// Step IDs
const (
	StepCategory    chat.StepID = "category"
	StepSubcategory chat.StepID = "subcategory"
	StepItem        chat.StepID = "item"
	StepDetail      chat.StepID = "detail"
	StepConfirm     chat.StepID = "confirm"
)

// State keys
const (
	KeyCategory     = "category"
	KeyCategory2    = "category2"
	KeyItemCategory = "itemCategory"
	KeyAction       = "action"
)

// Catalog is the option source of the waterfall.
type Catalog interface {
	Root() chat.OptionSet
	Actions() chat.OptionSet
	Lookup(level catalog.Level, key string) (chat.OptionSet, error)
	Detail(key string) (entity.ProductCard, error)
}

// ShopWorkflow walks category → subcategory → item → action.
type ShopWorkflow struct {
	steps []chat.Step
}

func NewShopWorkflow(c Catalog) *ShopWorkflow {
	return &ShopWorkflow{
		steps: []chat.Step{
			&CategoryStep{catalog: c},
			&SubcategoryStep{catalog: c},
			&ItemStep{catalog: c},
			&DetailStep{catalog: c},
			&ConfirmStep{catalog: c},
		},
	}
}

func (w *ShopWorkflow) ID() chat.WorkflowID { return WorkflowID }
func (w *ShopWorkflow) Steps() []chat.Step  { return w.steps }
