package mcpserver

// ItemFormatContract describes the canonical item JSON shape that LLM
// consumers should follow when creating items or import batches.
const ItemFormatContract = `# Daybook Item Format Contract

Every item stored in Daybook follows this JSON shape.

## Structure

` + "```" + `json
{
  "id": "server-assigned, never set by clients",
  "title": "Human-readable title (REQUIRED, non-blank)",
  "description": "Optional free text",
  "priority": "URGENT | HIGH | MEDIUM | NORMAL | LOW",
  "completed": false,
  "pinned": false,
  "dueDate": "2026-12-05T09:00:00Z",
  "quantity": "2 litres",
  "listType": "TODO | SHOPPING | CALENDAR | MEMORY",
  "createdAt": "server-assigned RFC 3339 timestamp",
  "updatedAt": "server-assigned RFC 3339 timestamp"
}
` + "```" + `

## Rules

1. **` + "`" + `title` + "`" + ` is required.** Items with blank or whitespace-only titles
   are rejected (API) or silently skipped (import batches).
2. **` + "`" + `listType` + "`" + ` defaults to ` + "`" + `TODO` + "`" + `** when omitted.
3. **` + "`" + `priority` + "`" + ` defaults to ` + "`" + `NORMAL` + "`" + `** when omitted.
4. **Dates are RFC 3339** with timezone offset (UTC preferred). ` + "`" + `dueDate` + "`" + `
   is optional; omit it entirely for undated items.
5. **` + "`" + `completed` + "`" + ` and ` + "`" + `pinned` + "`" + ` start false.** Flip completion with the
   ` + "`" + `complete_item` + "`" + ` tool, not by re-creating the item.
6. **` + "`" + `quantity` + "`" + ` is a free-form annotation** ("2", "500 g"), meaningful
   mostly for SHOPPING items.
7. **Calendar membership is derived.** Any item with a ` + "`" + `dueDate` + "`" + ` appears
   in the calendar view regardless of its ` + "`" + `listType` + "`" + `.

## Import batches

The import endpoint and drop folder accept either a bare JSON array of
items or an object wrapping one:

` + "```" + `json
{
  "items": [
    {"title": "Milk", "listType": "SHOPPING", "quantity": "2"},
    {"title": "Dentist", "dueDate": "2026-09-03T10:00:00+02:00"}
  ]
}
` + "```" + `

Entries with blank titles or malformed dates are skipped with a warning;
the rest of the batch still applies.
`
