package profile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Originalimoc/compatctl/internal/imu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	p, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	gyro, accel := p.Mounts()
	assert.Equal(t, imu.LegionGoGyro, gyro)
	assert.Equal(t, imu.LegionGoAccel, accel)
}

func TestLoadMountOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.yaml")
	content := `gyro_mount:
  x: [1, 0, 0]
  y: [0, -1, 0]
  z: [0, 0, -1]
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	p, err := Load(path)
	require.NoError(t, err)

	gyro, accel := p.Mounts()
	assert.Equal(t, imu.MountMatrix{
		X: imu.Vec3{X: 1},
		Y: imu.Vec3{Y: -1},
		Z: imu.Vec3{Z: -1},
	}, gyro)
	// accel section absent: default stays
	assert.Equal(t, imu.LegionGoAccel, accel)

	v := gyro.Apply(imu.Vec3{X: 1, Y: 2, Z: 3})
	assert.Equal(t, imu.Vec3{X: 1, Y: -2, Z: -3}, v)
}

func TestLoadRejectsBadYaml(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.yaml")
	require.NoError(t, os.WriteFile(path, []byte("gyro_mount: ["), 0o644))
	_, err := Load(path)
	assert.Error(t, err)
}

func TestIncompleteMatrixIgnored(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.yaml")
	content := `gyro_mount:
  x: [1, 0]
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	p, err := Load(path)
	require.NoError(t, err)

	gyro, _ := p.Mounts()
	assert.Equal(t, imu.LegionGoGyro, gyro, "partial matrix falls back to default")
}
