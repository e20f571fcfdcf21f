package display

const vertex = `
#version 420

in  vec3 vertPos;
in  vec2 vertTexCoord;
out vec2 fragTexCoord;

void main() {
    fragTexCoord = vertTexCoord;
    gl_Position  = vec4(vertPos, 1);
}
`

const fragment = `
#version 420

uniform vec3 background;
uniform vec3 foreground;

layout (binding = 0) uniform sampler2D pixels;

in  vec2 fragTexCoord;
out vec4 outputColor;

void main() {
    // Pixel intensity is stored in the red channel.
    float v = texture(pixels, fragTexCoord).r;
    outputColor = vec4(mix(background, foreground, v), 1);
}
`
