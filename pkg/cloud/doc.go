// Package cloud renders a tag cloud of a category's direct subcategories.
//
// # Overview
//
// Each subcategory of the requested category is listed as a link whose font
// size grows with the number of pages categorized into it. The pipeline is:
//
//  1. Normalize the invocation into [Options] ([FromAttributes] for the tag
//     form, [FromArguments] for the function form)
//  2. Query a [membership.Store] for (subcategory, count) pairs
//  3. Compute [Stats] and map each count onto [MinSize, MaxSize] with [Size]
//  4. [Assemble] the wikitext fragment
//  5. Unless raw output was requested, hand it to the [Host] for expansion
//
// [Renderer] runs the whole pipeline. Every render marks the host document
// uncacheable, since category membership changes independently of the page
// that shows the cloud.
//
// # Invocation
//
// Tag form attributes:
//
//	<category-cloud category="Fruits" order="count" minsize="80" maxsize="125"
//	    class="category-cloud" style="..." donotparse="1" />
//
// Function form:
//
//	{{#category-cloud:Fruits|order=count|maxsize=200}}
//
// arrives as ("", "Fruits", "order=count", "maxsize=200"). Function results
// are always raw.
//
// # Errors
//
// Three conditions replace the cloud with an escaped message looked up
// through [Messages]: a missing category, a category with no subcategories,
// and a parameter that is not key=value. Store failures are returned as
// errors with code STORE_ERROR.
//
// # Sizing
//
// With counts between min and max:
//
//	size = minSize + (count - min) * (maxSize - minSize) / (max - min)
//
// When all counts are equal every entry gets [NeutralSize]. Inverted bounds
// are used as given.
package cloud
