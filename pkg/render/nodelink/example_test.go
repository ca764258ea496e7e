package nodelink_test

import (
	"fmt"
	"strings"

	"github.com/matzehuels/categorycloud/pkg/cloud"
	"github.com/matzehuels/categorycloud/pkg/membership"
	"github.com/matzehuels/categorycloud/pkg/render/nodelink"
)

func ExampleToDOT() {
	c := &cloud.Cloud{
		Category: "Vegetables",
		Items: []cloud.Item{
			{Entry: membership.Entry{Name: "Carrot", Count: 2}, Size: 100},
			{Entry: membership.Entry{Name: "Leek", Count: 2}, Size: 100},
		},
	}

	dot := nodelink.ToDOT(c, nodelink.Options{})
	for _, line := range strings.Split(dot, "\n") {
		if strings.Contains(line, "->") {
			fmt.Println(strings.TrimSpace(line))
		}
	}
	// Output:
	// "category:Vegetables" -> "sub:Carrot";
	// "category:Vegetables" -> "sub:Leek";
}
