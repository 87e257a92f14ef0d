package catalog

import "github.com/pr-poehali-dev/product-catalog-table/services/storefront/internal/domain"

const imageBase = "https://cdn.poehali.dev/projects/fe443828-51a0-40cf-a824-6ef601930c39/files/"

// Souvenirs is the storefront's product range.
var Souvenirs = []domain.Product{
	{
		ID:          1,
		Name:        "Матрёшка классическая",
		Description: "Традиционная русская матрёшка ручной работы с цветочной росписью. Набор из 5 кукол.",
		Price:       2500,
		Image:       imageBase + "56f3f7a8-c759-4cb0-950d-0756faa37cac.jpg",
		Category:    "Традиционные",
	},
	{
		ID:          2,
		Name:        "Кружка керамическая",
		Description: "Керамическая кружка с авторским дизайном и яркими узорами. Объём 350 мл.",
		Price:       850,
		Image:       imageBase + "f81566d0-a06e-415e-89d7-c31a6b91d740.jpg",
		Category:    "Посуда",
	},
	{
		ID:          3,
		Name:        "Брелок сувенирный",
		Description: "Металлический брелок с изображением достопримечательности города.",
		Price:       450,
		Image:       imageBase + "7ea9e1df-3b14-4f89-9510-226600ed3522.jpg",
		Category:    "Аксессуары",
	},
	{
		ID:          4,
		Name:        "Шкатулка деревянная",
		Description: "Изящная шкатулка из дерева с резным орнаментом для хранения украшений.",
		Price:       1800,
		Image:       imageBase + "56f3f7a8-c759-4cb0-950d-0756faa37cac.jpg",
		Category:    "Традиционные",
	},
	{
		ID:          5,
		Name:        "Магнит на холодильник",
		Description: "Яркий магнит с памятными местами. Коллекционная серия.",
		Price:       250,
		Image:       imageBase + "7ea9e1df-3b14-4f89-9510-226600ed3522.jpg",
		Category:    "Аксессуары",
	},
	{
		ID:          6,
		Name:        "Набор тарелок",
		Description: "Комплект из 6 декоративных тарелок с росписью. Диаметр 20 см.",
		Price:       3200,
		Image:       imageBase + "f81566d0-a06e-415e-89d7-c31a6b91d740.jpg",
		Category:    "Посуда",
	},
}

// Default returns the souvenir catalog.
func Default() *Static {
	return NewStatic(Souvenirs)
}
