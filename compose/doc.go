// Package compose resolves and checks the compositions of IL paragraphs.
//
// A paragraph's content is an ordered list of [model.Composition] values
// (lines, formulas, same-style runs, single characters and unicode runs).
// The [Resolver] walks that list and reports:
//
//   - compositions whose box escapes the paragraph box by more than
//     Config.Epsilon ([diag.GeometryError])
//   - glyphs escaping their line, formula or run box ([diag.GeometryError])
//   - glyphs of a line that go backwards in reading direction
//     ([diag.GeometryError])
//   - run members whose style is not value-equal to the run style
//     ([diag.StructuralError])
//   - composed text that differs from the paragraph's declared unicode
//     ([diag.ConsistencyWarning], warning severity unless
//     Config.TextMismatchFatal is set)
//
// The text check can normalize both sides first (NFC or NFKC) since
// extractors may legitimately decompose ligatures or accents:
//
//	cfg := compose.DefaultConfig()
//	cfg.Normalization = compose.NormalizeNFKC
//	diags := compose.NewResolverWithConfig(cfg).Resolve(para, "document/page[0]/pdfParagraph[3]")
package compose
