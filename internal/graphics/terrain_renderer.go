package graphics

import (
	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"terrastream/internal/terrain"
)

// chunkMesh holds the GPU buffers for one uploaded chunk.
type chunkMesh struct {
	vao        uint32
	vbo        uint32
	ebo        uint32
	indexCount int32
	origin     mgl32.Vec3
}

// TerrainRenderer owns the terrain and water shaders and one GPU mesh
// per loaded chunk. Upload/Remove are driven by the streaming hooks and
// must run on the GL thread.
type TerrainRenderer struct {
	terrainShader *Shader
	waterShader   *Shader

	meshes map[terrain.ChunkCoord]*chunkMesh

	waterVAO   uint32
	waterVBO   uint32
	waterLevel float32
	drawWater  bool

	LightDir mgl32.Vec3
}

func NewTerrainRenderer() (*TerrainRenderer, error) {
	terrainShader, err := NewShader("terrain.vert", "terrain.frag")
	if err != nil {
		return nil, err
	}
	waterShader, err := NewShader("water.vert", "water.frag")
	if err != nil {
		return nil, err
	}

	r := &TerrainRenderer{
		terrainShader: terrainShader,
		waterShader:   waterShader,
		meshes:        make(map[terrain.ChunkCoord]*chunkMesh),
		LightDir:      mgl32.Vec3{0.4, 1.0, 0.3}.Normalize(),
	}
	return r, nil
}

// waterQuadVertices builds two up-facing triangles covering the square
// [-extent, extent]² at the given height. Same winding as the terrain
// mesh (corner, +z, +x) so back-face culling keeps both visible from above.
func waterQuadVertices(level, extent float32) []float32 {
	return []float32{
		-extent, level, -extent,
		-extent, level, extent,
		extent, level, -extent,
		extent, level, -extent,
		-extent, level, extent,
		extent, level, extent,
	}
}

// EnableWater sets up a large translucent quad at the given height.
func (r *TerrainRenderer) EnableWater(level, extent float32) {
	r.waterLevel = level
	r.drawWater = true

	verts := waterQuadVertices(level, extent)

	gl.GenVertexArrays(1, &r.waterVAO)
	gl.GenBuffers(1, &r.waterVBO)
	gl.BindVertexArray(r.waterVAO)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.waterVBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(verts)*4, gl.Ptr(verts), gl.STATIC_DRAW)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, 3*4, gl.PtrOffset(0))
	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
}

// Upload creates GPU buffers for a freshly loaded chunk. A re-upload for
// the same coordinate replaces the previous mesh.
func (r *TerrainRenderer) Upload(rec *terrain.ChunkRecord) {
	if old, ok := r.meshes[rec.Coord]; ok {
		deleteChunkMesh(old)
	}

	mesh := rec.Mesh
	vertCount := len(mesh.Positions) / 3

	// Interleave position/normal/uv the way the vertex layout expects.
	interleaved := make([]float32, 0, vertCount*8)
	for i := 0; i < vertCount; i++ {
		interleaved = append(interleaved,
			mesh.Positions[i*3], mesh.Positions[i*3+1], mesh.Positions[i*3+2],
			mesh.Normals[i*3], mesh.Normals[i*3+1], mesh.Normals[i*3+2],
			mesh.UVs[i*2], mesh.UVs[i*2+1],
		)
	}

	cm := &chunkMesh{
		indexCount: int32(len(mesh.Indices)),
		origin:     rec.Origin,
	}
	gl.GenVertexArrays(1, &cm.vao)
	gl.GenBuffers(1, &cm.vbo)
	gl.GenBuffers(1, &cm.ebo)

	gl.BindVertexArray(cm.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, cm.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(interleaved)*4, gl.Ptr(interleaved), gl.STATIC_DRAW)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, cm.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(mesh.Indices)*4, gl.Ptr(mesh.Indices), gl.STATIC_DRAW)

	stride := int32(8 * 4)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, stride, gl.PtrOffset(0))
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointer(1, 3, gl.FLOAT, false, stride, gl.PtrOffset(3*4))
	gl.EnableVertexAttribArray(2)
	gl.VertexAttribPointer(2, 2, gl.FLOAT, false, stride, gl.PtrOffset(6*4))

	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, 0)

	r.meshes[rec.Coord] = cm
}

// Remove frees the GPU buffers for an evicted chunk.
func (r *TerrainRenderer) Remove(coord terrain.ChunkCoord) {
	if cm, ok := r.meshes[coord]; ok {
		deleteChunkMesh(cm)
		delete(r.meshes, coord)
	}
}

// MeshCount reports how many chunk meshes are resident on the GPU.
func (r *TerrainRenderer) MeshCount() int {
	return len(r.meshes)
}

// Draw renders all resident chunks, then the water plane if enabled.
// minH/maxH drive the height-based color ramp.
func (r *TerrainRenderer) Draw(view, proj mgl32.Mat4, minH, maxH float32) {
	r.terrainShader.Use()
	r.terrainShader.SetMatrix4("uView", &view[0])
	r.terrainShader.SetMatrix4("uProj", &proj[0])
	r.terrainShader.SetFloat("uMinHeight", minH)
	r.terrainShader.SetFloat("uMaxHeight", maxH)
	r.terrainShader.SetVector3("uLightDir", r.LightDir.X(), r.LightDir.Y(), r.LightDir.Z())

	for _, cm := range r.meshes {
		model := mgl32.Translate3D(cm.origin.X(), cm.origin.Y(), cm.origin.Z())
		r.terrainShader.SetMatrix4("uModel", &model[0])
		gl.BindVertexArray(cm.vao)
		gl.DrawElements(gl.TRIANGLES, cm.indexCount, gl.UNSIGNED_INT, gl.PtrOffset(0))
	}
	gl.BindVertexArray(0)

	if r.drawWater {
		r.waterShader.Use()
		r.waterShader.SetMatrix4("uView", &view[0])
		r.waterShader.SetMatrix4("uProj", &proj[0])
		gl.Enable(gl.BLEND)
		gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
		gl.DepthMask(false)
		gl.BindVertexArray(r.waterVAO)
		gl.DrawArrays(gl.TRIANGLES, 0, 6)
		gl.BindVertexArray(0)
		gl.DepthMask(true)
		gl.Disable(gl.BLEND)
	}
}

// Cleanup releases all GPU resources.
func (r *TerrainRenderer) Cleanup() {
	for coord, cm := range r.meshes {
		deleteChunkMesh(cm)
		delete(r.meshes, coord)
	}
	if r.waterVBO != 0 {
		gl.DeleteBuffers(1, &r.waterVBO)
	}
	if r.waterVAO != 0 {
		gl.DeleteVertexArrays(1, &r.waterVAO)
	}
	r.terrainShader.Delete()
	r.waterShader.Delete()
}

func deleteChunkMesh(cm *chunkMesh) {
	gl.DeleteBuffers(1, &cm.vbo)
	gl.DeleteBuffers(1, &cm.ebo)
	gl.DeleteVertexArrays(1, &cm.vao)
}
