// Package membershiptest provides a shared dataset for backend tests.
package membershiptest

import (
	"fmt"

	"github.com/matzehuels/categorycloud/pkg/membership"
)

// Fixture returns a small wiki:
//
//	Fruits      -> Apple (3 members), Banana_Cultivars (9), Citrus (no members)
//	Vegetables  -> Carrot (2), Leek (2)
//	Empty       -> nothing
//
// Apple also lists itself and a deleted page as members; neither is counted.
// Fruit_salad is an article in Fruits and is not a subcategory.
func Fixture() *membership.Dataset {
	ds := &membership.Dataset{}
	cat := func(id int64, title string) {
		ds.Pages = append(ds.Pages, membership.Page{ID: id, Namespace: membership.NamespaceCategory, Title: title})
	}
	article := func(id int64, title string) {
		ds.Pages = append(ds.Pages, membership.Page{ID: id, Namespace: 0, Title: title})
	}
	link := func(from int64, to string) {
		ds.Links = append(ds.Links, membership.Link{From: from, To: to})
	}

	cat(1, "Fruits")
	cat(2, "Apple")
	cat(3, "Banana_Cultivars")
	cat(4, "Empty")
	cat(5, "Citrus")
	cat(6, "Vegetables")
	cat(7, "Carrot")
	cat(8, "Leek")

	link(2, "Fruits")
	link(3, "Fruits")
	link(5, "Fruits")
	link(7, "Vegetables")
	link(8, "Vegetables")

	article(9, "Fruit_salad")
	link(9, "Fruits")

	for i, title := range []string{"Granny_Smith", "Fuji", "Gala"} {
		id := int64(10 + i)
		article(id, title)
		link(id, "Apple")
	}
	link(2, "Apple")  // self membership
	link(99, "Apple") // page 99 was deleted

	for i := 0; i < 9; i++ {
		id := int64(20 + i)
		article(id, fmt.Sprintf("Banana_%d", i+1))
		link(id, "Banana_Cultivars")
	}

	for i, to := range []string{"Carrot", "Carrot", "Leek", "Leek"} {
		id := int64(30 + i)
		article(id, fmt.Sprintf("Vegetable_%d", i+1))
		link(id, to)
	}

	return ds
}

// FruitsByName is the expected result for Fruits ordered by name.
func FruitsByName() []membership.Entry {
	return []membership.Entry{
		{Name: "Apple", Count: 3},
		{Name: "Banana_Cultivars", Count: 9},
	}
}

// FruitsByCount is the expected result for Fruits ordered by count.
func FruitsByCount() []membership.Entry {
	return []membership.Entry{
		{Name: "Banana_Cultivars", Count: 9},
		{Name: "Apple", Count: 3},
	}
}

// Vegetables is the expected result for Vegetables in either order.
func Vegetables() []membership.Entry {
	return []membership.Entry{
		{Name: "Carrot", Count: 2},
		{Name: "Leek", Count: 2},
	}
}
