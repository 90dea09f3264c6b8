// Package loginitems recovers embedded bookmark payloads from the
// property-list containers macOS uses to track login and background
// items.
//
// Modern macOS keeps these items in keyed-archive containers
// (backgrounditems.btm, BackgroundItems-v*.btm) whose "$objects" table
// carries bookmark blobs alongside archiver bookkeeping. A bookmark
// records the volume, path, and creator of its target, which makes the
// containers a persistence source worth triaging.
//
// The root package exposes one-call helpers; the CLI in cmd/loginitems
// and the finer-grained packages cover the rest:
//
//   - extractor walks a decoded container and collects bookmark payloads
//   - plist decodes property lists into an ordered value tree
//   - artifact describes and writes extracted payloads
//   - bundle packs evidence into a .tar.zst archive
//   - sweep scans the canonical container locations under a system root
//
// # Quick start
//
//	payloads, err := loginitems.Bookmarks("backgrounditems.btm")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, p := range payloads {
//	    fmt.Printf("bookmark: %d bytes\n", len(p))
//	}
//
// Pre-Ventura systems keep login items in a plain dictionary instead of
// a keyed archive; [Read] returns such containers untouched.
package loginitems
