// Package tagsphere renders an interactive 3D tag cloud for [Ebitengine].
//
// Labels are placed on an ellipsoid with a golden-spiral layout, relaxed by a
// constraint solver that keeps them near the surface and apart from each
// other, and projected orthographically with depth-driven opacity. Users
// rotate the cloud by dragging, zoom with the wheel or a pinch, and click a
// label to navigate to its page.
//
// # Quick start
//
// The simplest way to get started is [Run], which opens a window hosting a
// [Cloud]:
//
//	labels := []tagsphere.Label{
//		{Name: "go", Count: 42, URL: "/tags/go/"},
//		{Name: "ebiten", Count: 7, URL: "/tags/ebiten/"},
//	}
//	cloud := tagsphere.NewCloud(labels, tagsphere.DefaultConfig())
//	tagsphere.Run(cloud, tagsphere.RunConfig{
//		Title: "Tags", Width: 640, Height: 384, Resizable: true,
//	})
//
// For full control, embed the cloud in your own [ebiten.Game], place it with
// [Cloud.SetViewport] and call [Cloud.Update] and [Cloud.Draw] directly.
//
// # Engines and containers
//
// An [Engine] is one simulation built from one label snapshot and one
// container size. Its [Clock] owns liveness: after [Engine.Dispose] no timer,
// tween or solver step runs again. The [Cloud] container owns at most one
// live engine, rebuilding it on resize (debounced) and on data reload while
// keeping the camera.
//
// # Navigation
//
// Clicking a label plays the selection animation and asks the attached
// [Navigator] for the page. The fetch runs on its own goroutine; the result
// is applied on the next Update. Failures fall back to the [Opener]. Pointer
// input is disabled while a fetch is in flight and re-enabled afterwards in
// every case. See the navigate package for the HTTP bridge.
//
// [Ebitengine]: https://ebitengine.org
package tagsphere
