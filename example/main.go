// FILE: xrm/example/main.go
package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	xrm "github.com/fherking/xcb-util-xrm"
)

// TerminalSettings is the typed target for the struct scanning demo.
type TerminalSettings struct {
	Background string        `xrm:"background"`
	Foreground string        `xrm:"foreground"`
	SaveLines  int           `xrm:"saveLines"`
	Blink      bool          `xrm:"cursorBlink"`
	BlinkRate  time.Duration `xrm:"blinkRate"`
	Palette    []string      `xrm:"palette"`
}

const (
	resourceFilePath = "demo.resources"
	overlayFilePath  = "demo.toml"
	savedFilePath    = "demo.saved"
)

func main() {
	// =========================================================================
	// PART 1: INITIAL SETUP
	// Write a classic resource file and a TOML overlay for the demo to load.
	// =========================================================================
	log.Println("---")
	log.Println("➡️  PART 1: Creating demo resource files...")

	defer func() {
		log.Println("---")
		log.Println("🧹 Cleaning up...")
		os.Remove(resourceFilePath)
		os.Remove(overlayFilePath)
		os.Remove(savedFilePath)
		log.Printf("Removed %s, %s and %s.", resourceFilePath, overlayFilePath, savedFilePath)
	}()

	resourceText := `! demo resources
*background: gray10
*foreground: gray90
xterm.vt100.background: dark \
blue
XTerm*saveLines: 4096
xterm.?.allowBell: on
`
	if err := os.WriteFile(resourceFilePath, []byte(resourceText), 0644); err != nil {
		log.Fatalf("❌ Failed to write %s: %v", resourceFilePath, err)
	}

	overlayText := `["xterm"."vt100"]
cursorBlink = true
blinkRate = "600ms"
palette = ["black", "red", "green"]
`
	if err := os.WriteFile(overlayFilePath, []byte(overlayText), 0644); err != nil {
		log.Fatalf("❌ Failed to write %s: %v", overlayFilePath, err)
	}
	log.Printf("✅ Wrote %s and %s.", resourceFilePath, overlayFilePath)

	// =========================================================================
	// PART 2: ASSEMBLING THE DATABASE WITH THE BUILDER
	// Layer the resource file, the TOML overlay, and an explicit override.
	// =========================================================================
	log.Println("---")
	log.Println("➡️  PART 2: Building the database...")

	validator := func(d *xrm.Database) error {
		if _, err := d.GetString("xterm.vt100.background", ""); err != nil {
			return fmt.Errorf("required resource missing: %w", err)
		}
		return nil
	}

	db, err := xrm.NewBuilder().
		WithFile(resourceFilePath).
		WithConfigFile(overlayFilePath).
		WithResource("xterm.vt100.foreground", "ivory").
		WithValidator(validator).
		Build()
	if err != nil {
		log.Fatalf("❌ Builder failed: %v", err)
	}
	log.Printf("✅ Database assembled with %d entries:", db.Len())
	for _, line := range db.Entries() {
		fmt.Printf("     %s\n", line)
	}

	// =========================================================================
	// PART 3: QUERIES AND PRECEDENCE
	// The same query resolves differently as more specific entries compete.
	// =========================================================================
	log.Println("---")
	log.Println("➡️  PART 3: Running queries...")

	// Name and class queries are paired by position; the tight entry for
	// xterm.vt100.background beats the loose *background fallback.
	res, err := db.Query("xterm.vt100.background", "XTerm.VT100.Background")
	if err != nil {
		log.Fatalf("❌ Query failed: %v", err)
	}
	if value, ok := res.Value(); ok {
		log.Printf("✅ xterm.vt100.background resolves to %q (tight entry wins)", value)
	}

	// The class query satisfies XTerm*saveLines even though the name differs.
	lines, err := db.GetInt64("xterm.vt100.saveLines", "XTerm.VT100.SaveLines")
	if err != nil {
		log.Fatalf("❌ GetInt64 failed: %v", err)
	}
	log.Printf("✅ saveLines resolves to %d via the class match", lines)

	// The ? wildcard consumes exactly one component, and GetBool folds
	// spellings like "on" into a boolean.
	bell, err := db.GetBool("xterm.vt100.allowBell", "")
	if err != nil {
		log.Fatalf("❌ GetBool failed: %v", err)
	}
	log.Printf("✅ allowBell resolves to %t through the ? wildcard", bell)

	// Absent resources are not errors on the Query surface; the typed
	// accessors degrade to their sentinels instead.
	missing, err := db.Query("emacs.cursorColor", "")
	if err != nil {
		log.Fatalf("❌ Query failed: %v", err)
	}
	if _, ok := missing.Value(); !ok {
		log.Printf("✅ emacs.cursorColor is absent: Int64()=%d Bool()=%t String()=%q",
			missing.Int64(), missing.Bool(), missing.String())
	}

	// =========================================================================
	// PART 4: SCANNING INTO A STRUCT
	// One call resolves every tagged field under the prefix.
	// =========================================================================
	log.Println("---")
	log.Println("➡️  PART 4: Scanning into TerminalSettings...")

	// Scans resolve fields by name only, so the class-only XTerm*saveLines
	// entry does not apply and SaveLines keeps its preset default.
	settings := TerminalSettings{SaveLines: 1024}
	if err := db.Scan("xterm.vt100", &settings); err != nil {
		log.Fatalf("❌ Scan failed: %v", err)
	}
	printSettings(&settings)

	// =========================================================================
	// PART 5: PERSISTING THE COMBINED DATABASE
	// =========================================================================
	log.Println("---")
	log.Println("➡️  PART 5: Saving the combined database...")

	if err := db.Save(savedFilePath); err != nil {
		log.Fatalf("❌ Save failed: %v", err)
	}
	reloaded, err := xrm.DatabaseFromFile(savedFilePath)
	if err != nil {
		log.Fatalf("❌ Reload failed: %v", err)
	}
	log.Printf("✅ Saved and reloaded %d entries from %s.", reloaded.Len(), absPath(savedFilePath))
}

// printSettings displays the scanned struct state.
func printSettings(s *TerminalSettings) {
	fmt.Println("   --------------------------------------------------")
	fmt.Println("             Scanned TerminalSettings")
	fmt.Println("   --------------------------------------------------")
	fmt.Printf("     Background: %s\n", s.Background)
	fmt.Printf("     Foreground: %s\n", s.Foreground)
	fmt.Printf("     SaveLines:  %d\n", s.SaveLines)
	fmt.Printf("     Blink:      %t\n", s.Blink)
	fmt.Printf("     BlinkRate:  %s\n", s.BlinkRate)
	fmt.Printf("     Palette:    %v\n", s.Palette)
	fmt.Println("   --------------------------------------------------")
}

func absPath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return abs
}
