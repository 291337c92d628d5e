// Package page renders the static landing page committed to every
// provisioned repository. Rendering is deterministic: the same repository
// name and owner always produce byte-identical output.
package page

import "github.com/valyala/fasttemplate"

const landingTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>{{repo}} - GitHub Page</title>
    <style>
        body {
            font-family: 'Inter', sans-serif;
            display: flex;
            flex-direction: column;
            justify-content: center;
            align-items: center;
            min-height: 100vh;
            margin: 0;
            background-color: #f0f4f8;
            color: #1a202c;
            text-align: center;
        }
        .container {
            padding: 2rem;
            border-radius: 12px;
            background: white;
            box-shadow: 0 10px 15px -3px rgba(0, 0, 0, 0.1), 0 4px 6px -2px rgba(0, 0, 0, 0.05);
            max-width: 90%;
            transition: all 0.3s ease;
        }
        h1 {
            color: #4c51bf;
            margin-bottom: 0.5rem;
        }
        p {
            color: #4a5568;
            font-size: 1.1rem;
        }
        .badge {
            display: inline-block;
            padding: 0.3rem 0.7rem;
            margin-top: 1rem;
            border-radius: 9999px;
            background-color: #667eea;
            color: white;
            font-weight: bold;
            text-transform: uppercase;
            font-size: 0.75rem;
        }
    </style>
</head>
<body>
    <div class="container">
        <h1>Deployment Success!</h1>
        <p>This page was automatically deployed by pageforge.</p>
        <p>This is the content for the repository:</p>
        <h2>{{repo}}</h2>
        <span class="badge">Created by {{owner}}</span>
    </div>
</body>
</html>
`

// FileName is the name of the rendered file inside the staging workspace.
const FileName = "index.html"

var tmpl = fasttemplate.New(landingTemplate, "{{", "}}")

// Render produces the landing page for a repository.
func Render(owner, repo string) []byte {
	return []byte(tmpl.ExecuteString(map[string]interface{}{
		"repo":  repo,
		"owner": owner,
	}))
}
