// Package tgbotq assembles AI-generated prose into a print-ready,
// self-contained document (Word-compatible HTML, optionally PDF).
//
// # Quick Start
//
// Create a builder, build a document, and close when done:
//
//	b, err := tgbotq.NewBuilder()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer b.Close()
//
//	path, cleanup, err := b.WriteDoc(ctx, tgbotq.Input{
//	    Topic:        "Sun'iy intellekt",
//	    WorkTypeName: "Referat",
//	    Content:      rawProse,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer cleanup()
//
// The returned path points at a transient .doc file; the caller is
// responsible for transmitting it and must invoke cleanup afterwards.
//
// # Build Pipeline
//
// The build process follows these stages:
//
//  1. Cleanup (trailing note blocks, horizontal rules, heading markers,
//     blank-line collapsing)
//  2. Marker substitution: [RASM n: ...] image markers and $...$ /
//     $$...$$ formula spans are replaced with embedded image markup
//  3. Line classification into headings, subheadings, tables and
//     paragraphs, rendered as styled HTML
//  4. Cover page rendering and document packaging (A4 print styling)
//  5. Optional PDF rendering via headless Chrome (go-rod)
//
// Image markers drive a remote generation service through a
// submit/poll job lifecycle with bounded retries. Every external
// failure degrades to a safe fallback (placeholder image, untranslated
// prompt, remote URL instead of embedded bytes): a build never fails
// because a remote service is down.
//
// # Configuration
//
// Use functional options to customize the builder:
//
//	b, err := tgbotq.NewBuilder(
//	    tgbotq.WithTimeout(5 * time.Minute),
//	    tgbotq.WithImageService("https://api.deapi.ai/api/v1/client", token),
//	    tgbotq.WithRetryPolicy(5, 12, 3*time.Second),
//	)
//
// With no image-service token configured the builder still produces a
// complete document using placeholder images.
//
// # Parallel Processing
//
// For batch generation, use BuilderPool to manage multiple builder
// (and browser) instances:
//
//	pool := tgbotq.NewBuilderPool(4)
//	defer pool.Close()
//
//	b, err := pool.Acquire()
//	defer pool.Release(b)
//
// # Browser Requirements
//
// PDF output requires Chrome/Chromium. The go-rod library downloads a
// managed Chromium on first run. Set ROD_BROWSER_BIN to use a
// pre-installed binary; ROD_NO_SANDBOX=1 for containers. HTML (.doc)
// output needs no browser.
package tgbotq
