package server

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/df07/go-beam-raytracer/pkg/core"
	"github.com/df07/go-beam-raytracer/pkg/material"
	"github.com/df07/go-beam-raytracer/pkg/renderer"
	"github.com/df07/go-beam-raytracer/pkg/scene"
)

// InspectResponse represents the JSON response for triangle inspection
type InspectResponse struct {
	Hit      bool          `json:"hit"`
	Index    int           `json:"index"` // Triangle index in the scene
	Point    [3]float32    `json:"point"`
	Normal   [3]float32    `json:"normal"`
	Distance float32       `json:"distance"`
	Local2D  [2]float32    `json:"local2D"` // Weights of the second and third vertices
	Vertices [3][3]float32 `json:"vertices"`
	Size     float32       `json:"size"`
	Material MaterialInfo  `json:"material"`
}

// MaterialInfo describes the hit triangle's material
type MaterialInfo struct {
	Emission string `json:"emission"`
	Diffuse  string `json:"diffuse"`
	Emissive bool   `json:"emissive"`
}

func vec3Array(v core.Vec3) [3]float32 {
	return [3]float32{v.X(), v.Y(), v.Z()}
}

func hexColour(c core.Colour) string {
	r, g, b := c.ToRGB8()
	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}

func materialInfo(m material.Material) MaterialInfo {
	return MaterialInfo{
		Emission: hexColour(m.Emission),
		Diffuse:  hexColour(m.Diffuse),
		Emissive: m.IsEmissive(),
	}
}

// inspectPixel casts the first viewport ray of a pixel and reports the closest triangle
func inspectPixel(sceneObj *scene.Scene, width, height, pixelX, pixelY int) InspectResponse {
	ray := renderer.NewSceneRaytracer(sceneObj, width, height, 1).PrimaryRay(pixelX, pixelY)

	triangles := sceneObj.Triangles()
	hit, ok := triangles.ClosestHit(ray)
	if !ok {
		return InspectResponse{Hit: false, Index: -1}
	}

	tri := triangles.Primitive(hit.Index)
	local := tri.Local2DCoordinates(hit.Point)
	response := InspectResponse{
		Hit:      true,
		Index:    hit.Index,
		Point:    vec3Array(hit.Point),
		Normal:   vec3Array(tri.Normal()),
		Distance: hit.Point.Sub(ray.Origin).Len(),
		Local2D:  [2]float32{local.X(), local.Y()},
		Size:     tri.Size(),
		Material: materialInfo(triangles.Material(hit.Index)),
	}
	for i, v := range tri.Vertices() {
		response.Vertices[i] = vec3Array(v)
	}
	return response
}

// handleInspect handles ray casting inspection requests
func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	var params SceneParams
	if err := s.parseCommonSceneParams(r, &params); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid scene parameters: "+err.Error())
		return
	}

	pixelX, err := strconv.Atoi(r.URL.Query().Get("x"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid x coordinate")
		return
	}
	pixelY, err := strconv.Atoi(r.URL.Query().Get("y"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid y coordinate")
		return
	}
	if pixelX < 0 || pixelX >= params.Width || pixelY < 0 || pixelY >= params.Height {
		writeError(w, http.StatusBadRequest, "Pixel coordinates out of bounds")
		return
	}

	sceneObj, err := s.createScene(params.Scene)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, inspectPixel(sceneObj, params.Width, params.Height, pixelX, pixelY))
}
