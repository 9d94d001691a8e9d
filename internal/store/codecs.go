package store

import "saba/internal/core"

// Codecs for every persisted kind.
var (
	Sales     = salesSchema.codec()
	Purchases = purchasesSchema.codec()
	Treasury  = treasurySchema.codec()

	Stock = mappingCodec(KindStock,
		func() map[string]core.StockItem { return map[string]core.StockItem{} }, normalizeStock)
	Recipes = mappingCodec(KindRecipes,
		func() map[string]core.Recipe { return map[string]core.Recipe{} }, normalizeRecipes)
	Employees = mappingCodec(KindEmployees,
		func() map[string]core.Employee { return map[string]core.Employee{} }, normalizeEmployees)
	Dishes = mappingCodec(KindDishes,
		func() map[string]core.Dish { return map[string]core.Dish{} }, normalizeDishes)
	Schedule = mappingCodec(KindSchedule,
		func() core.WeeklySchedule { return core.WeeklySchedule{}.Normalize() }, normalizeSchedule)
	BankBalances = mappingCodec(KindBankBalances,
		func() core.BankBalances { return core.BankBalances{} }, normalizeBank)
)
