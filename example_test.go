package rstpost_test

import (
	"context"
	"fmt"
	"strings"

	"github.com/alnah/go-rstpost"
)

// Example demonstrates converting an in-memory post.
func Example() {
	r, err := rstpost.NewReader()
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	post, err := r.Render(context.Background(), rstpost.Input{
		Path:   "hello-world.rst",
		Source: "Hello\n=====\n\n:date: 2012-12-12\n:tags: go, rst\n\nFirst post.\n",
	})
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	fmt.Println(post.Title)
	fmt.Println(post.Slug)
	fmt.Println(post.Date.Format("2006-01-02"))
	fmt.Println(strings.Join(post.Tags, "|"))
	// Output:
	// Hello
	// hello-world
	// 2012-12-12
	// go|rst
}

// Example_customDirective demonstrates registering a directive.
func Example_customDirective() {
	note := rstpost.DirectiveFunc(func(inv rstpost.Invocation) []rstpost.Fragment {
		return []rstpost.Fragment{rstpost.Fragment(`<aside class="note">` + strings.Join(inv.Content, " ") + `</aside>`)}
	})

	r, err := rstpost.NewReader(rstpost.WithDirective(rstpost.DirectiveSpec{HasContent: true}, note, "note"))
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	post, err := r.Render(context.Background(), rstpost.Input{
		Source: "Notes\n=====\n\n.. note::\n\n    keep it short\n",
	})
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	fmt.Println(strings.Contains(post.Body, `<aside class="note">keep it short</aside>`))
	// Output: true
}

// Example_metadata demonstrates reading raw metadata fields.
func Example_metadata() {
	r, err := rstpost.NewReader()
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	post, err := r.Render(context.Background(), rstpost.Input{
		Source: "Post\n====\n\n:series: intro\n:public: false\n\nbody\n",
	})
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	series, _ := post.Attr("series")
	fmt.Println(series, post.Public)
	// Output: intro false
}
