// Package gltf loads glTF 2.0 models (.gltf and .glb) for the asset cache.
//
// Only what the renderer consumes is read: the POSITION attribute and the
// indices of every mesh primitive, and the base color texture of each
// material. Positions and indices are uploaded to GPU buffers, textures
// are decoded (PNG, JPEG, WebP, BMP), converted to RGBA8 and uploaded.
package gltf
