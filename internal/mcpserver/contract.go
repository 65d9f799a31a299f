package mcpserver

// SyntaxGuide describes the note syntax the publisher understands.
const SyntaxGuide = `# Vault Note Syntax

Only notes that opt in are published. Everything else in the vault stays
private, as do files under any directory or file name starting with a dot.

## Front-matter

` + "```" + `markdown
---
publish: true
tags:
  - project-x
  - meeting-notes
aliases:
  - Standup
---
` + "```" + `

- The block must start on the very first line with ` + "`---`" + ` and end with a
  line holding only ` + "`---`" + `.
- ` + "`publish: true`" + ` is required; any other value keeps the note private.
- ` + "`tags`" + ` and ` + "`aliases`" + ` are block lists: the key on its own line, then
  one indented ` + "`- value`" + ` per line. Inline lists are not understood.
- Other keys are ignored.

## Wikilinks

- ` + "`[[Note Name]]`" + ` links to the note whose file name (without ` + "`.md`" + `) or
  alias is ` + "`Note Name`" + `. Matching falls back to lowercase.
- ` + "`[[Note Name|shown text]]`" + ` shows different text.
- Links to unpublished or missing notes render as broken links.

## Comments

Text between a pair of ` + "`%%`" + ` markers is removed before publishing:
` + "`visible %% private %% visible`" + `. An unpaired ` + "`%%`" + ` is kept as is.

## Routes

A note's route is its path without ` + "`.md`" + `, spaces replaced by hyphens,
each segment percent-encoded: ` + "`Guides/My Note.md`" + ` is served at
` + "`#/Guides/My-Note`" + `.

## Search

Plain queries match any whitespace-separated term in titles or bodies,
ignoring case. ` + "`tag:name`" + ` lists notes with a tag containing ` + "`name`" + `.
`
