package appstore

import "context"

// baseApp describes one of the media services the editor supports out of
// the box. Each needs an API key before it is offered to the editor.
type baseApp struct {
	name    string
	docsURL string
}

var baseApps = map[string]baseApp{
	"youtube":  {name: "YouTube", docsURL: "https://developers.google.com/youtube/v3/getting-started"},
	"vimeo":    {name: "Vimeo", docsURL: "https://developer.vimeo.com/"},
	"giphy":    {name: "Giphy", docsURL: "https://developers.giphy.com/docs/api"},
	"unsplash": {name: "Unsplash", docsURL: "https://unsplash.com/documentation"},
	"flickr":   {name: "Flickr", docsURL: "https://www.flickr.com/services/developer/api/"},
	"pixabay":  {name: "Pixabay", docsURL: "https://pixabay.com/api/docs/"},
}

// BaseAppKeys lists the app keys the built-in provider understands, for
// settings surfaces that collect API keys.
func BaseAppKeys() []string {
	keys := make([]string, 0, len(baseApps))
	for k := range baseApps {
		keys = append(keys, k)
	}
	return keys
}

// BaseAppsProvider contributes descriptors for the built-in media
// services that have an API key configured. Services without a key are
// omitted rather than shipped broken.
func BaseAppsProvider(apiKeys map[string]string) Provider {
	return Provider{
		Name: "base-apps",
		Contribute: func(context.Context) (Mapping, error) {
			m := Mapping{}
			for key, app := range baseApps {
				apiKey, ok := apiKeys[key]
				if !ok || apiKey == "" {
					continue
				}
				m[key] = map[string]any{
					"name":    app.name,
					"docsUrl": app.docsURL,
					"apiKey":  apiKey,
				}
			}
			return m, nil
		},
	}
}
