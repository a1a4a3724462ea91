// Package rstpost reads blog post sources written in reStructuredText-style
// markup and turns them into posts: a title, an HTML body and typed metadata.
//
// # Quick Start
//
//	r, err := rstpost.NewReader()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	post, err := r.Read(ctx, "posts/hello.rst")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(post.Title, post.Date, post.Tags)
//
// A post source starts with its title heading, followed by a field list
// that becomes the post metadata:
//
//	Hello
//	=====
//
//	:date: 2012-12-12 10:30
//	:tags: go, rst
//	:public: false
//
//	.. sourcecode:: go
//	    :linenos:
//
//	    package main
//
// # Conversion Pipeline
//
//  1. Preprocessing (line endings, byte order mark)
//  2. Markup to HTML via Goldmark with directive and field list parsers
//  3. Title and docinfo extraction, section heading shift
//  4. Metadata recovery from the docinfo table
//  5. Post assembly (author, date, tags, visibility, slug)
//
// # Directives
//
// sourcecode and code-block highlight code with chroma; shellcast, shcast
// and script embed a terminal recording player. Register more with
// WithDirective; a name registered twice keeps the last handler.
//
// # Parallel Processing
//
// For batch conversion, use ReaderPool to bound concurrency:
//
//	pool, err := rstpost.NewReaderPool(rstpost.ResolvePoolSize(0))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer pool.Close()
//
//	r, err := pool.Acquire(ctx)
//	if err != nil {
//	    return err
//	}
//	defer pool.Release(r)
package rstpost
