package anki

// Stable model identifier, generated once; changing it would duplicate every
// note on re-import.
const (
	ModelID   = 1455106195
	ModelName = "Poetry Cloze"
)

// clozeModelType marks a model as cloze-deletion in the collection schema.
const clozeModelType = 1

// cardCSS keeps the poem's spacing intact inside the card body.
const cardCSS = `pre {
    font-family: 'EB Garamond', serif;
    font-size: inherit;
    line-height: inherit;
    white-space: pre;
    margin: 0;
    padding: 0;
    background: none;
    border: none;
}`

// cardTemplate is shared by the question and answer sides; the cloze marker
// is what differs between them at display time.
const cardTemplate = `<div style="font-family: 'EB Garamond', serif; font-size: 18px; line-height: 1.6; text-align: left; max-width: 600px; margin: 0 auto;">
{{cloze:Text}}
</div>
<hr>
<div style="font-family: 'EB Garamond', serif; text-align: center; color: #666; font-size: 14px; line-height: 1.4;">
{{Metadata}}
</div>`

// modelMap builds the model definition for the collection's models JSON.
func modelMap(fieldNames []string, mod int64) map[string]interface{} {
	fields := make([]map[string]interface{}, len(fieldNames))
	for i, name := range fieldNames {
		fields[i] = map[string]interface{}{
			"name":   name,
			"ord":    i,
			"sticky": false,
			"rtl":    false,
			"font":   "Arial",
			"size":   20,
			"media":  []interface{}{},
		}
	}

	templates := []map[string]interface{}{
		{
			"name":  "Cloze",
			"ord":   0,
			"qfmt":  cardTemplate,
			"afmt":  cardTemplate,
			"did":   nil,
			"bqfmt": "",
			"bafmt": "",
		},
	}

	return map[string]interface{}{
		"id":        ModelID,
		"name":      ModelName,
		"type":      clozeModelType,
		"mod":       mod,
		"usn":       -1,
		"sortf":     0,
		"did":       1,
		"flds":      fields,
		"tmpls":     templates,
		"css":       cardCSS,
		"latexPre":  "\\documentclass[12pt]{article}\n\\special{papersize=3in,5in}\n\\usepackage[utf8]{inputenc}\n\\usepackage{amssymb,amsmath}\n\\pagestyle{empty}\n\\setlength{\\parindent}{0in}\n\\begin{document}\n",
		"latexPost": "\\end{document}",
		"req":       []interface{}{},
		"tags":      []interface{}{},
		"vers":      []interface{}{},
	}
}
